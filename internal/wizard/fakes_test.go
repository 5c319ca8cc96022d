package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/google/uuid"
)

var errNotFound = errors.New("not found")

type fakeGoals struct {
	goals     map[uuid.UUID]goals.Goal
	created   []goals.Payload
	updated   map[uuid.UUID]goals.Payload
	createErr error
	updateErr error
}

func newFakeGoals() *fakeGoals {
	return &fakeGoals{goals: map[uuid.UUID]goals.Goal{}, updated: map[uuid.UUID]goals.Payload{}}
}

func (f *fakeGoals) CreateGoal(_ context.Context, p goals.Payload) (goals.Goal, error) {
	if f.createErr != nil {
		return goals.Goal{}, f.createErr
	}
	g := goals.Goal{ID: uuid.New(), Payload: p}
	f.goals[g.ID] = g
	f.created = append(f.created, p)
	return g, nil
}

func (f *fakeGoals) UpdateGoal(_ context.Context, id uuid.UUID, p goals.Payload) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = p
	f.goals[id] = goals.Goal{ID: id, Payload: p}
	return nil
}

func (f *fakeGoals) Goal(_ context.Context, userID, id uuid.UUID) (goals.Goal, error) {
	g, ok := f.goals[id]
	if !ok || g.Payload.UserID != userID {
		return goals.Goal{}, errNotFound
	}
	return g, nil
}

type fakeHabits struct {
	created []HabitPayload
	failIDs map[string]bool
}

func (f *fakeHabits) CreateHabit(_ context.Context, p HabitPayload) error {
	if f.failIDs[p.Title] {
		return errors.New("habit store down")
	}
	f.created = append(f.created, p)
	return nil
}

type fakeTasks struct {
	created []TaskPayload
}

func (f *fakeTasks) CreateTask(_ context.Context, p TaskPayload) error {
	f.created = append(f.created, p)
	return nil
}

type fakePrefs struct{ currency string }

func (f fakePrefs) BaseCurrency(context.Context, uuid.UUID) (string, error) {
	return f.currency, nil
}

type harness struct {
	user   uuid.UUID
	now    time.Time
	goals  *fakeGoals
	habits *fakeHabits
	tasks  *fakeTasks
	wiz    *Wizard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		user:   uuid.New(),
		now:    time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		goals:  newFakeGoals(),
		habits: &fakeHabits{failIDs: map[string]bool{}},
		tasks:  &fakeTasks{},
	}
	h.wiz = New(h.user, Deps{
		Catalog: catalog.MustDefault(),
		Goals:   h.goals,
		Habits:  h.habits,
		Tasks:   h.tasks,
		Prefs:   fakePrefs{currency: "EUR"},
		Now:     func() time.Time { return h.now },
	})
	return h
}

func (h *harness) openCreate(t *testing.T) {
	t.Helper()
	if err := h.wiz.Open(context.Background(), ModeCreate, uuid.Nil); err != nil {
		t.Fatalf("open: %v", err)
	}
}
