package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/google/uuid"
)

type autoPlan struct {
	goalID   uuid.UUID
	goalType goals.GoalType
	habits   []catalog.HabitSuggestion
	tasks    []catalog.TaskSuggestion
	selHabit map[string]bool
	selTask  map[string]bool
}

func newAutoPlan(goalID uuid.UUID, goalType goals.GoalType, cat *catalog.Catalog) *autoPlan {
	return &autoPlan{
		goalID:   goalID,
		goalType: goalType,
		habits:   cat.HabitSuggestions(goalType),
		tasks:    cat.TaskSuggestions(goalType),
		selHabit: make(map[string]bool),
		selTask:  make(map[string]bool),
	}
}

// AutoPlanView is the suggestion list with the current selection.
type AutoPlanView struct {
	GoalID         uuid.UUID                 `json:"goalId"`
	GoalType       goals.GoalType            `json:"goalType"`
	Habits         []catalog.HabitSuggestion `json:"habits"`
	Tasks          []catalog.TaskSuggestion  `json:"tasks"`
	SelectedHabits []string                  `json:"selectedHabits"`
	SelectedTasks  []string                  `json:"selectedTasks"`
}

// CommitResult counts what CommitSelections created.
type CommitResult struct {
	GoalID        uuid.UUID `json:"goalId"`
	HabitsCreated int       `json:"habitsCreated"`
	TasksCreated  int       `json:"tasksCreated"`
}

func (w *Wizard) activePlan() (*autoPlan, error) {
	switch w.state {
	case StateClosed:
		return nil, ErrClosed
	case StateAutoPlan:
		return w.plan, nil
	}
	return nil, fmt.Errorf("%w: no auto-plan in progress", ErrInvalidState)
}

func (w *Wizard) AutoPlan() (AutoPlanView, error) {
	p, err := w.activePlan()
	if err != nil {
		return AutoPlanView{}, err
	}
	v := AutoPlanView{
		GoalID:         p.goalID,
		GoalType:       p.goalType,
		Habits:         p.habits,
		Tasks:          p.tasks,
		SelectedHabits: []string{},
		SelectedTasks:  []string{},
	}
	for _, h := range p.habits {
		if p.selHabit[h.ID] {
			v.SelectedHabits = append(v.SelectedHabits, h.ID)
		}
	}
	for _, t := range p.tasks {
		if p.selTask[t.ID] {
			v.SelectedTasks = append(v.SelectedTasks, t.ID)
		}
	}
	return v, nil
}

// ToggleHabit flips the selection of a habit suggestion and returns whether
// it is now selected.
func (w *Wizard) ToggleHabit(id string) (bool, error) {
	p, err := w.activePlan()
	if err != nil {
		return false, err
	}
	for _, h := range p.habits {
		if h.ID == id {
			return toggle(p.selHabit, h.ID), nil
		}
	}
	return false, fmt.Errorf("%w: habit %q", ErrUnknownSuggestion, id)
}

func (w *Wizard) ToggleTask(id string) (bool, error) {
	p, err := w.activePlan()
	if err != nil {
		return false, err
	}
	for _, t := range p.tasks {
		if t.ID == id {
			return toggle(p.selTask, t.ID), nil
		}
	}
	return false, fmt.Errorf("%w: task %q", ErrUnknownSuggestion, id)
}

// toggle keys the selection by the catalog's id, never the caller's string.
func toggle(set map[string]bool, id string) bool {
	if set[id] {
		delete(set, id)
		return false
	}
	set[id] = true
	return true
}

// CommitSelections creates a habit or task for every selected suggestion.
// Every selection is attempted. Created ones leave the selection; if any
// failed the wizard stays in auto-plan with the failures still selected and
// the joined error is returned. Otherwise the wizard closes.
func (w *Wizard) CommitSelections(ctx context.Context) (CommitResult, error) {
	p, err := w.activePlan()
	if err != nil {
		return CommitResult{}, err
	}
	res := CommitResult{GoalID: p.goalID}

	habitType := HabitTypeProductivity
	if p.goalType == goals.GoalTypeHealth {
		habitType = HabitTypeHealth
	}

	var errs []error
	for _, h := range p.habits {
		if !p.selHabit[h.ID] {
			continue
		}
		err := w.deps.Habits.CreateHabit(ctx, HabitPayload{
			UserID:            w.userID,
			GoalID:            p.goalID,
			Title:             h.Title,
			Description:       h.Description,
			Frequency:         h.Frequency,
			CompletionMode:    CompletionModeBoolean,
			Status:            HabitStatusActive,
			HabitType:         habitType,
			CompletionHistory: []time.Time{},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("create habit %q: %w", h.ID, err))
			continue
		}
		delete(p.selHabit, h.ID)
		res.HabitsCreated++
	}
	for _, t := range p.tasks {
		if !p.selTask[t.ID] {
			continue
		}
		err := w.deps.Tasks.CreateTask(ctx, TaskPayload{
			UserID:      w.userID,
			GoalID:      p.goalID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			Context:     TaskContextPersonal,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("create task %q: %w", t.ID, err))
			continue
		}
		delete(p.selTask, t.ID)
		res.TasksCreated++
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	w.Close()
	return res, nil
}

// Skip leaves the auto-plan step without creating anything.
func (w *Wizard) Skip() error {
	if _, err := w.activePlan(); err != nil {
		return err
	}
	w.Close()
	return nil
}
