package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/google/uuid"
)

// After selects what happens once a goal is committed. AfterAutoPlan and
// AfterKeepOpen only apply to new goals; edits always close.
type After string

const (
	AfterClose    After = "close"
	AfterAutoPlan After = "autoPlan"
	AfterKeepOpen After = "keepOpen"
)

// Result describes a successful commit.
type Result struct {
	Goal    goals.Goal `json:"goal"`
	Created bool       `json:"created"`
	State   State      `json:"state"`
}

// BuildPayload validates the draft and assembles the goal payload. On
// failure the error key is stored on the draft and a *ValidationError is
// returned.
func (w *Wizard) BuildPayload() (goals.Payload, error) {
	d := &w.draft

	if strings.TrimSpace(d.Title) == "" {
		return goals.Payload{}, w.reject(ErrKeyMissingTitle)
	}
	target, ok := goals.ParseNumericInput(d.TargetValueText)
	if !ok || target <= 0 {
		return goals.Payload{}, w.reject(ErrKeyInvalidTarget)
	}
	current, ok := goals.ParseNumericInput(d.CurrentValueText)
	if !ok {
		current = 0
	}

	progress := goals.ComputeProgress(current, target)

	var metric goals.MetricSettings
	if d.MetricType == goals.MetricAmount {
		currency := d.Currency
		if currency == "" {
			currency = w.baseCurrency
		}
		mode := d.FinanceMode
		if mode == "" {
			mode = goals.FinanceSave
		}
		metric = goals.AmountMetric{Currency: currency, FinanceMode: mode}
	} else {
		metric = goals.UnitMetric{Metric: d.MetricType, Unit: d.resolvedUnit()}
	}

	start := w.deps.Now()
	if d.StartDate != nil {
		start = *d.StartDate
	}

	d.ErrorKey = ""
	return goals.Payload{
		UserID:          w.userID,
		Title:           strings.TrimSpace(d.Title),
		Description:     strings.TrimSpace(d.Description),
		GoalType:        d.GoalType,
		Status:          goals.StatusActive,
		Metric:          metric,
		InitialValue:    current,
		TargetValue:     target,
		StartDate:       start,
		TargetDate:      d.TargetDate,
		Milestones:      goals.BuildMilestonePayload(d.milestoneInputs()),
		ProgressPercent: progress,
		Stats:           goals.DeriveStats(d.MetricType, progress),
	}, nil
}

func (w *Wizard) reject(key ErrorKey) error {
	w.draft.ErrorKey = key
	return &ValidationError{Key: key}
}

// Submit validates and commits the draft. Validation failures and store
// errors leave the draft as it was so the user can correct and retry.
func (w *Wizard) Submit(ctx context.Context, after After) (*Result, error) {
	switch w.state {
	case StateClosed:
		return nil, ErrClosed
	case StateAutoPlan:
		return nil, fmt.Errorf("%w: draft already committed", ErrInvalidState)
	}
	w.state = StateEditing

	payload, err := w.BuildPayload()
	if err != nil {
		return nil, err
	}

	if w.mode == ModeEdit {
		id := *w.draft.EditingGoalID
		if err := w.deps.Goals.UpdateGoal(ctx, id, payload); err != nil {
			return nil, fmt.Errorf("update goal %s: %w", id, err)
		}
		w.Close()
		return &Result{Goal: goals.Goal{ID: id, Payload: payload}, State: w.state}, nil
	}

	created, err := w.deps.Goals.CreateGoal(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	switch after {
	case AfterAutoPlan:
		w.draft.clearContent()
		w.plan = newAutoPlan(created.ID, payload.GoalType, w.deps.Catalog)
		w.state = StateAutoPlan
	case AfterKeepOpen:
		w.draft.clearContent()
		w.state = StateEmpty
	default:
		w.Close()
	}
	return &Result{Goal: created, Created: true, State: w.state}, nil
}

// EditingGoalID returns the id of the goal under edit.
func (w *Wizard) EditingGoalID() (uuid.UUID, bool) {
	if w.draft.EditingGoalID == nil {
		return uuid.Nil, false
	}
	return *w.draft.EditingGoalID, true
}
