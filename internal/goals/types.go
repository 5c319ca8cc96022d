// Package goals holds the goal domain model, the progress and milestone
// calculator, and the scenario resolver. Everything here is pure.
package goals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type GoalType string

const (
	GoalTypeFinancial    GoalType = "financial"
	GoalTypeHealth       GoalType = "health"
	GoalTypeEducation    GoalType = "education"
	GoalTypeProductivity GoalType = "productivity"
	GoalTypePersonal     GoalType = "personal"
)

var GoalTypes = []GoalType{
	GoalTypeFinancial,
	GoalTypeHealth,
	GoalTypeEducation,
	GoalTypeProductivity,
	GoalTypePersonal,
}

func (t GoalType) Valid() bool {
	for _, v := range GoalTypes {
		if v == t {
			return true
		}
	}
	return false
}

type MetricType string

const (
	MetricAmount   MetricType = "amount"
	MetricCount    MetricType = "count"
	MetricDuration MetricType = "duration"
	MetricCustom   MetricType = "custom"

	// Legacy kinds still understood by the default unit logic.
	// They cannot be picked in the wizard.
	MetricWeight MetricType = "weight"
	MetricNone   MetricType = "none"
)

// SelectableMetrics are the metric kinds offered to users.
var SelectableMetrics = []MetricType{MetricAmount, MetricCount, MetricDuration, MetricCustom}

// Selectable reports whether m can be chosen in the wizard.
func (m MetricType) Selectable() bool {
	for _, v := range SelectableMetrics {
		if v == m {
			return true
		}
	}
	return false
}

type FinanceMode string

const (
	FinanceSave      FinanceMode = "save"
	FinanceSpend     FinanceMode = "spend"
	FinanceDebtClose FinanceMode = "debt_close"
)

func (f FinanceMode) Valid() bool {
	switch f {
	case FinanceSave, FinanceSpend, FinanceDebtClose:
		return true
	}
	return false
}

type GoalStatus string

const (
	StatusActive    GoalStatus = "active"
	StatusCompleted GoalStatus = "completed"
	StatusArchived  GoalStatus = "archived"
)

// MetricSettings is either AmountMetric or UnitMetric. A goal measured in
// money carries a currency and a finance mode and never a unit; every other
// goal carries an optional unit and nothing finance related.
type MetricSettings interface {
	Kind() MetricType
	isMetricSettings()
}

// AmountMetric is the settings variant for money goals.
type AmountMetric struct {
	Currency    string
	FinanceMode FinanceMode
}

func (AmountMetric) Kind() MetricType { return MetricAmount }
func (AmountMetric) isMetricSettings() {}

// UnitMetric is the settings variant for every non-amount metric. Unit is a
// catalog id, free text, or empty.
type UnitMetric struct {
	Metric MetricType
	Unit   string
}

func (u UnitMetric) Kind() MetricType { return u.Metric }
func (UnitMetric) isMetricSettings()  {}

// NewMetricSettings builds the variant matching metric.
func NewMetricSettings(metric MetricType, unit, currency string, mode FinanceMode) MetricSettings {
	if metric == MetricAmount {
		return AmountMetric{Currency: currency, FinanceMode: mode}
	}
	return UnitMetric{Metric: metric, Unit: unit}
}

// Milestone is a persisted sub-target. TargetPercent is a fraction in (0,1].
type Milestone struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	TargetPercent float64    `json:"targetPercent"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
}

// Payload is what the wizard hands to the goal store on commit.
type Payload struct {
	UserID          uuid.UUID
	Title           string
	Description     string
	GoalType        GoalType
	Status          GoalStatus
	Metric          MetricSettings
	InitialValue    float64
	TargetValue     float64
	StartDate       time.Time
	TargetDate      *time.Time
	Milestones      []Milestone
	ProgressPercent float64
	Stats           Stats
}

// MetricType returns the kind of the payload's metric settings.
func (p Payload) MetricType() MetricType {
	if p.Metric == nil {
		return ""
	}
	return p.Metric.Kind()
}

// Unit returns the unit for non-amount goals and "" otherwise.
func (p Payload) Unit() string {
	if u, ok := p.Metric.(UnitMetric); ok {
		return u.Unit
	}
	return ""
}

// Amount returns the amount settings if the payload measures money.
func (p Payload) Amount() (AmountMetric, bool) {
	a, ok := p.Metric.(AmountMetric)
	return a, ok
}

// Goal is a persisted goal.
type Goal struct {
	ID        uuid.UUID
	Payload   Payload
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MilestoneTitle is the default English milestone title.
func MilestoneTitle(percent int) string {
	return fmt.Sprintf("%d%% Complete", percent)
}
