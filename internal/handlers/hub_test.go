package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/wizard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	messages [][]byte
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.messages = append(f.messages, data)
	return nil
}

func TestHubSendsOnlyToOwner(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()
	phone, laptop, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.register(alice, phone)
	hub.register(alice, laptop)
	hub.register(bob, other)

	goalID := uuid.New()
	hub.Send(alice, WSEvent{Type: EventGoalDeleted, GoalID: goalID.String()})

	require.Len(t, phone.messages, 1)
	require.Len(t, laptop.messages, 1)
	assert.Empty(t, other.messages)

	var got WSEvent
	require.NoError(t, json.Unmarshal(phone.messages[0], &got))
	assert.Equal(t, EventGoalDeleted, got.Type)
	assert.Equal(t, goalID.String(), got.GoalID)

	hub.unregister(alice, phone)
	hub.unregister(alice, laptop)
	hub.Send(alice, WSEvent{Type: EventGoalUpdated})
	assert.Len(t, phone.messages, 1)
	assert.NotContains(t, hub.users, alice)
}

type memGoals struct {
	goals map[uuid.UUID]goals.Goal
}

func (m *memGoals) CreateGoal(_ context.Context, p goals.Payload) (goals.Goal, error) {
	g := goals.Goal{ID: uuid.New(), Payload: p}
	m.goals[g.ID] = g
	return g, nil
}

func (m *memGoals) UpdateGoal(_ context.Context, id uuid.UUID, p goals.Payload) error {
	m.goals[id] = goals.Goal{ID: id, Payload: p}
	return nil
}

func (m *memGoals) Goal(_ context.Context, _, id uuid.UUID) (goals.Goal, error) {
	return m.goals[id], nil
}

type fixedCurrency struct{}

func (fixedCurrency) BaseCurrency(context.Context, uuid.UUID) (string, error) { return "USD", nil }

func TestSessionRegistryRefreshesEditSessions(t *testing.T) {
	reg := NewSessionRegistry()
	owner := uuid.New()
	store := &memGoals{goals: map[uuid.UUID]goals.Goal{}}
	g, err := store.CreateGoal(context.Background(), goals.Payload{
		UserID:      owner,
		Title:       "Read",
		GoalType:    goals.GoalTypeEducation,
		Metric:      goals.UnitMetric{Metric: goals.MetricCount, Unit: "books"},
		TargetValue: 12,
	})
	require.NoError(t, err)

	newWizard := func(mode wizard.Mode) *wizard.Wizard {
		w := wizard.New(owner, wizard.Deps{Catalog: catalog.MustDefault(), Goals: store, Prefs: fixedCurrency{}})
		require.NoError(t, w.Open(context.Background(), mode, g.ID))
		return w
	}
	editor := reg.add(owner, "en", newWizard(wizard.ModeEdit))
	watcher := reg.add(owner, "en", newWizard(wizard.ModeEdit))
	creator := reg.add(owner, "en", newWizard(wizard.ModeCreate))
	stranger := reg.add(uuid.New(), "en", newWizard(wizard.ModeEdit))

	updated := g
	updated.Payload.Title = "Read more"
	updated.Payload.TargetValue = 24

	assert.Equal(t, 1, reg.Refresh(owner, updated, editor.id))
	assert.Equal(t, "Read more", watcher.wiz.Draft().Title)
	assert.Equal(t, "24", watcher.wiz.Draft().TargetValueText)
	assert.Equal(t, "Read", editor.wiz.Draft().Title)
	assert.Equal(t, "", creator.wiz.Draft().Title)
	assert.Equal(t, "Read", stranger.wiz.Draft().Title)

	_, ok := reg.get(watcher.id, uuid.New())
	assert.False(t, ok)
	_, ok = reg.get(watcher.id, owner)
	assert.True(t, ok)

	reg.remove(watcher.id)
	assert.Equal(t, 3, reg.Len())
}
