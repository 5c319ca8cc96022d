package wizard

import (
	"strconv"
	"strings"
	"time"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/google/uuid"
)

// CustomUnit is the unit value meaning "the user typed their own unit".
const CustomUnit = "custom"

// MilestoneDraft keeps Percent on the 1..100 scale.
type MilestoneDraft struct {
	ID      uuid.UUID  `json:"id"`
	Title   string     `json:"title"`
	Percent int        `json:"percent"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// MilestonePatch carries a partial milestone update. Nil fields are left alone.
type MilestonePatch struct {
	Title        *string
	Percent      *float64
	DueDate      *time.Time
	ClearDueDate bool
}

type DateKind string

const (
	DateStart     DateKind = "start"
	DateTarget    DateKind = "target"
	DateMilestone DateKind = "milestone"
)

// DatePick identifies which date field a picker writes to.
type DatePick struct {
	Kind        DateKind  `json:"kind"`
	MilestoneID uuid.UUID `json:"milestoneId,omitempty"`
}

// Draft is the editable form state of a goal. Numbers are held as the raw
// text the user typed.
type Draft struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	GoalType         goals.GoalType    `json:"goalType"`
	MetricType       goals.MetricType  `json:"metricType"`
	Unit             string            `json:"unit"`
	ShowCustomUnit   bool              `json:"showCustomUnit"`
	CustomUnit       string            `json:"customUnit"`
	FinanceMode      goals.FinanceMode `json:"financeMode"`
	Currency         string            `json:"currency"`
	TargetValueText  string            `json:"targetValue"`
	CurrentValueText string            `json:"currentValue"`
	StartDate        *time.Time        `json:"startDate,omitempty"`
	TargetDate       *time.Time        `json:"targetDate,omitempty"`
	Milestones       []MilestoneDraft  `json:"milestones"`
	Scenario         goals.Scenario    `json:"scenario"`
	EditingGoalID    *uuid.UUID        `json:"editingGoalId,omitempty"`
	ErrorKey         ErrorKey          `json:"errorKey,omitempty"`
	Picker           *DatePick         `json:"picker,omitempty"`
}

func newDraft(baseCurrency string) Draft {
	return Draft{
		GoalType:    goals.GoalTypeFinancial,
		MetricType:  goals.MetricAmount,
		FinanceMode: goals.FinanceSave,
		Currency:    baseCurrency,
		Milestones:  []MilestoneDraft{},
		Scenario:    goals.ScenarioCustom,
	}
}

func (d Draft) clone() Draft {
	c := d
	c.Milestones = append([]MilestoneDraft(nil), d.Milestones...)
	if c.Milestones == nil {
		c.Milestones = []MilestoneDraft{}
	}
	if d.EditingGoalID != nil {
		id := *d.EditingGoalID
		c.EditingGoalID = &id
	}
	if d.Picker != nil {
		p := *d.Picker
		c.Picker = &p
	}
	return c
}

// clearContent empties the per-goal content so another goal can be entered
// with the same type and metric settings.
func (d *Draft) clearContent() {
	d.Title = ""
	d.Description = ""
	d.TargetValueText = ""
	d.CurrentValueText = ""
	d.Milestones = []MilestoneDraft{}
	d.ErrorKey = ""
	d.Picker = nil
}

func (d *Draft) clearCustomUnit() {
	d.ShowCustomUnit = false
	d.CustomUnit = ""
}

func (d *Draft) milestoneIndex(id uuid.UUID) int {
	for i, m := range d.Milestones {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// hydrate fills the draft from a persisted goal.
func (d *Draft) hydrate(g goals.Goal, cat *catalog.Catalog, baseCurrency string) {
	p := g.Payload
	*d = newDraft(baseCurrency)

	id := g.ID
	d.EditingGoalID = &id
	d.Title = p.Title
	d.Description = p.Description
	d.GoalType = p.GoalType
	d.MetricType = p.MetricType()
	d.TargetValueText = formatNumber(p.TargetValue)
	d.CurrentValueText = formatNumber(p.InitialValue)
	start := p.StartDate
	if !start.IsZero() {
		d.StartDate = &start
	}
	if p.TargetDate != nil {
		t := *p.TargetDate
		d.TargetDate = &t
	}

	switch m := p.Metric.(type) {
	case goals.AmountMetric:
		if m.Currency != "" {
			d.Currency = m.Currency
		}
		if m.FinanceMode != "" {
			d.FinanceMode = m.FinanceMode
		}
	case goals.UnitMetric:
		switch {
		case cat.IsCatalogUnit(m.Unit):
			d.Unit = m.Unit
		case m.Unit != "":
			d.Unit = CustomUnit
			d.ShowCustomUnit = true
			d.CustomUnit = m.Unit
		}
	}

	for _, ms := range p.Milestones {
		var due *time.Time
		if ms.DueDate != nil {
			t := *ms.DueDate
			due = &t
		}
		d.Milestones = append(d.Milestones, MilestoneDraft{
			ID:      ms.ID,
			Title:   ms.Title,
			Percent: goals.PercentFromFraction(ms.TargetPercent),
			DueDate: due,
		})
	}
	d.Scenario = goals.ScenarioForGoal(g)
}

// resolvedUnit is the unit the payload will carry.
func (d *Draft) resolvedUnit() string {
	if d.MetricType == goals.MetricAmount {
		return ""
	}
	if d.ShowCustomUnit {
		return strings.TrimSpace(d.CustomUnit)
	}
	if d.Unit != "" && d.Unit != CustomUnit {
		return d.Unit
	}
	return ""
}

func (d *Draft) milestoneInputs() []goals.MilestoneInput {
	in := make([]goals.MilestoneInput, len(d.Milestones))
	for i, m := range d.Milestones {
		in[i] = goals.MilestoneInput{
			ID:      m.ID,
			Title:   m.Title,
			Percent: float64(m.Percent),
			DueDate: m.DueDate,
		}
	}
	return in
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
