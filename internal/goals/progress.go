package goals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseNumericInput parses user typed numbers such as "1 500,50" or "$20".
// Everything except digits, '.', ',' and '-' is dropped and ',' is read as a
// decimal point. ok is false for blank or non-finite input.
func ParseNumericInput(text string) (value float64, ok bool) {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ClampPercent clamps x to [0,1]. NaN clamps to 0.
func ClampPercent(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ComputeProgress returns current/target clamped to [0,1]. The caller must
// have rejected a non-positive target already.
func ComputeProgress(current, target float64) float64 {
	return ClampPercent(current / target)
}

// ClampMilestonePercent rounds p and clamps it to the 1..100 draft scale.
func ClampMilestonePercent(p float64) int {
	if math.IsNaN(p) {
		return 1
	}
	r := math.Round(p)
	if r < 1 {
		return 1
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// PercentFromFraction converts a persisted 0..1 target to the draft scale.
func PercentFromFraction(x float64) int {
	return ClampMilestonePercent(x * 100)
}

// MilestoneInput is the draft shape of a milestone as seen by the calculator.
type MilestoneInput struct {
	ID      uuid.UUID
	Title   string
	Percent float64
	DueDate *time.Time
}

// BuildMilestonePayload converts draft milestones to persisted ones. Blank
// titles fall back to "{percent}%" and entries that end up at or below zero
// are dropped.
func BuildMilestonePayload(drafts []MilestoneInput) []Milestone {
	out := make([]Milestone, 0, len(drafts))
	for _, d := range drafts {
		target := ClampPercent(d.Percent / 100)
		if target <= 0 {
			continue
		}
		title := strings.TrimSpace(d.Title)
		if title == "" {
			title = fmt.Sprintf("%d%%", int(math.Round(target*100)))
		}
		out = append(out, Milestone{
			ID:            d.ID,
			Title:         title,
			TargetPercent: target,
			DueDate:       d.DueDate,
		})
	}
	return out
}

// StatsKind names which progress bucket a goal reports into.
type StatsKind string

const (
	StatsFinancial StatsKind = "financialProgressPercent"
	StatsTasks     StatsKind = "tasksProgressPercent"
	StatsHabits    StatsKind = "habitsProgressPercent"
)

// Stats is a single populated progress bucket.
type Stats struct {
	Kind    StatsKind
	Percent float64
}

// DeriveStats picks the bucket for metric: amount reports financial progress,
// count reports task progress, anything else reports habit progress.
func DeriveStats(metric MetricType, progress float64) Stats {
	switch metric {
	case MetricAmount:
		return Stats{Kind: StatsFinancial, Percent: progress}
	case MetricCount:
		return Stats{Kind: StatsTasks, Percent: progress}
	default:
		return Stats{Kind: StatsHabits, Percent: progress}
	}
}

func (s Stats) MarshalJSON() ([]byte, error) {
	if s.Kind == "" {
		return []byte("{}"), nil
	}
	return json.Marshal(map[StatsKind]float64{s.Kind: s.Percent})
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var m map[StatsKind]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) > 1 {
		return fmt.Errorf("stats: expected one bucket, got %d", len(m))
	}
	*s = Stats{}
	for k, v := range m {
		switch k {
		case StatsFinancial, StatsTasks, StatsHabits:
			s.Kind, s.Percent = k, v
		default:
			return fmt.Errorf("stats: unknown bucket %q", k)
		}
	}
	return nil
}

type payloadJSON struct {
	UserID          uuid.UUID   `json:"userId"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	GoalType        GoalType    `json:"goalType"`
	Status          GoalStatus  `json:"status"`
	MetricType      MetricType  `json:"metricType"`
	Unit            *string     `json:"unit,omitempty"`
	FinanceMode     FinanceMode `json:"financeMode,omitempty"`
	Currency        string      `json:"currency,omitempty"`
	InitialValue    float64     `json:"initialValue"`
	TargetValue     float64     `json:"targetValue"`
	StartDate       time.Time   `json:"startDate"`
	TargetDate      *time.Time  `json:"targetDate,omitempty"`
	Milestones      []Milestone `json:"milestones"`
	ProgressPercent float64     `json:"progressPercent"`
	Stats           Stats       `json:"stats"`
}

func (p Payload) wire() payloadJSON {
	w := payloadJSON{
		UserID:          p.UserID,
		Title:           p.Title,
		Description:     p.Description,
		GoalType:        p.GoalType,
		Status:          p.Status,
		MetricType:      p.MetricType(),
		InitialValue:    p.InitialValue,
		TargetValue:     p.TargetValue,
		StartDate:       p.StartDate,
		TargetDate:      p.TargetDate,
		Milestones:      p.Milestones,
		ProgressPercent: p.ProgressPercent,
		Stats:           p.Stats,
	}
	if w.Milestones == nil {
		w.Milestones = []Milestone{}
	}
	switch m := p.Metric.(type) {
	case AmountMetric:
		w.Currency = m.Currency
		w.FinanceMode = m.FinanceMode
	case UnitMetric:
		if m.Unit != "" {
			unit := m.Unit
			w.Unit = &unit
		}
	}
	return w
}

// MarshalJSON flattens the metric variant into metricType, unit, currency
// and financeMode, leaving out the keys that do not apply.
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

func (g Goal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID uuid.UUID `json:"id"`
		payloadJSON
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}{
		ID:          g.ID,
		payloadJSON: g.Payload.wire(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	})
}
