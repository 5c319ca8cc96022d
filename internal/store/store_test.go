package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arnold/goalplan-api/internal/database"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/wizard"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func amountPayload(user uuid.UUID, mode goals.FinanceMode) goals.Payload {
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	return goals.Payload{
		UserID:          user,
		Title:           "Emergency fund",
		GoalType:        goals.GoalTypeFinancial,
		Status:          goals.StatusActive,
		Metric:          goals.AmountMetric{Currency: "EUR", FinanceMode: mode},
		InitialValue:    1000,
		TargetValue:     10000,
		StartDate:       start,
		ProgressPercent: 0.1,
		Stats:           goals.DeriveStats(goals.MetricAmount, 0.1),
		Milestones: []goals.Milestone{
			{ID: uuid.New(), Title: "25% Complete", TargetPercent: 0.25},
			{ID: uuid.New(), Title: "50% Complete", TargetPercent: 0.5},
			{ID: uuid.New(), Title: "75% Complete", TargetPercent: 0.75},
		},
	}
}

func TestGoalRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGoals(openTestDB(t))
	user := uuid.New()

	p := amountPayload(user, goals.FinanceSave)
	created, err := s.CreateGoal(ctx, p)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := s.Goal(ctx, user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", got.Payload.Title)
	assert.Equal(t, goals.AmountMetric{Currency: "EUR", FinanceMode: goals.FinanceSave}, got.Payload.Metric)
	assert.Equal(t, "", got.Payload.Unit())
	assert.Equal(t, goals.StatsFinancial, got.Payload.Stats.Kind)
	assert.InDelta(t, 0.1, got.Payload.Stats.Percent, 1e-9)
	assert.True(t, p.StartDate.Equal(got.Payload.StartDate))

	require.Len(t, got.Payload.Milestones, 3)
	for i, m := range got.Payload.Milestones {
		assert.Equal(t, p.Milestones[i].ID, m.ID)
		assert.Equal(t, p.Milestones[i].TargetPercent, m.TargetPercent)
	}
}

func TestGoalScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := NewGoals(openTestDB(t))

	created, err := s.CreateGoal(ctx, amountPayload(uuid.New(), goals.FinanceSave))
	require.NoError(t, err)

	_, err = s.Goal(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	other := amountPayload(uuid.New(), goals.FinanceSave)
	assert.ErrorIs(t, s.UpdateGoal(ctx, created.ID, other), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, other.UserID, created.ID), ErrNotFound)
}

func TestUpdateGoalReplacesMilestonesAndMetric(t *testing.T) {
	ctx := context.Background()
	s := NewGoals(openTestDB(t))
	user := uuid.New()

	created, err := s.CreateGoal(ctx, amountPayload(user, goals.FinanceSave))
	require.NoError(t, err)

	kept := created.Payload.Milestones[1]
	kept.Title = "Halfway"
	update := goals.Payload{
		UserID:          user,
		Title:           "Run more",
		GoalType:        goals.GoalTypeHealth,
		Status:          goals.StatusActive,
		Metric:          goals.UnitMetric{Metric: goals.MetricCount, Unit: "workouts"},
		TargetValue:     100,
		StartDate:       created.Payload.StartDate,
		Milestones:      []goals.Milestone{kept},
		ProgressPercent: 0,
		Stats:           goals.DeriveStats(goals.MetricCount, 0),
	}
	require.NoError(t, s.UpdateGoal(ctx, created.ID, update))

	got, err := s.Goal(ctx, user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run more", got.Payload.Title)
	assert.Equal(t, goals.UnitMetric{Metric: goals.MetricCount, Unit: "workouts"}, got.Payload.Metric)
	assert.Equal(t, 0.0, got.Payload.InitialValue)
	assert.Equal(t, goals.StatsTasks, got.Payload.Stats.Kind)
	require.Len(t, got.Payload.Milestones, 1)
	assert.Equal(t, kept.ID, got.Payload.Milestones[0].ID)
	assert.Equal(t, "Halfway", got.Payload.Milestones[0].Title)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewGoals(openTestDB(t))
	user := uuid.New()

	first, err := s.CreateGoal(ctx, amountPayload(user, goals.FinanceSave))
	require.NoError(t, err)
	health := amountPayload(user, goals.FinanceSave)
	health.GoalType = goals.GoalTypeHealth
	health.Metric = goals.UnitMetric{Metric: goals.MetricCount}
	_, err = s.CreateGoal(ctx, health)
	require.NoError(t, err)
	_, err = s.CreateGoal(ctx, amountPayload(uuid.New(), goals.FinanceSave))
	require.NoError(t, err)

	all, total, err := s.List(ctx, user, GoalFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	fin, total, err := s.List(ctx, user, GoalFilter{GoalType: goals.GoalTypeFinancial})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, fin, 1)
	assert.Equal(t, first.ID, fin[0].ID)
	assert.Len(t, fin[0].Payload.Milestones, 3)

	page, total, err := s.List(ctx, user, GoalFilter{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, page, 1)

	require.NoError(t, s.Delete(ctx, user, first.ID))
	_, err = s.Goal(ctx, user, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHabitsAndTasks(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	user, goalID := uuid.New(), uuid.New()

	habits := NewHabits(db)
	require.NoError(t, habits.CreateHabit(ctx, wizard.HabitPayload{
		UserID:            user,
		GoalID:            goalID,
		Title:             "Practice 20 minutes",
		Frequency:         "daily",
		CompletionMode:    wizard.CompletionModeBoolean,
		Status:            wizard.HabitStatusActive,
		HabitType:         wizard.HabitTypeProductivity,
		CompletionHistory: []time.Time{},
	}))
	hs, err := habits.ForGoal(ctx, user, goalID)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "daily", hs[0].Frequency)
	assert.Equal(t, wizard.HabitTypeProductivity, hs[0].HabitType)
	assert.Empty(t, hs[0].CompletionHistory)

	tasks := NewTasks(db)
	require.NoError(t, tasks.CreateTask(ctx, wizard.TaskPayload{
		UserID:   user,
		GoalID:   goalID,
		Title:    "Pick a course",
		Priority: "high",
		Context:  wizard.TaskContextPersonal,
	}))
	ts, err := tasks.ForGoal(ctx, user, goalID)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "high", ts[0].Priority)
	assert.False(t, ts[0].IsCompleted)
}

func TestFinanceFromGoals(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	goalStore := NewGoals(db)
	finance := NewFinance(db)
	user := uuid.New()

	spend, err := goalStore.CreateGoal(ctx, amountPayload(user, goals.FinanceSpend))
	require.NoError(t, err)
	b, err := finance.BudgetForGoal(ctx, spend)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10000).Equal(b.Limit))
	assert.True(t, decimal.NewFromInt(1000).Equal(b.Spent))
	assert.Equal(t, "EUR", b.Currency)

	_, err = finance.DebtForGoal(ctx, spend)
	assert.ErrorIs(t, err, ErrNotFinanceGoal)

	debtGoal, err := goalStore.CreateGoal(ctx, amountPayload(user, goals.FinanceDebtClose))
	require.NoError(t, err)
	d, err := finance.DebtForGoal(ctx, debtGoal)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9000).Equal(d.Balance))

	budgets, err := finance.Budgets(ctx, user)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, spend.ID, *budgets[0].GoalID)
	assert.True(t, decimal.NewFromInt(10000).Equal(budgets[0].Limit))

	debts, err := finance.Debts(ctx, user)
	require.NoError(t, err)
	assert.Len(t, debts, 1)
}

func TestPreferencesBaseCurrency(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	prefs := NewPreferences(db, "USD")

	plain := models.User{Email: "plain@example.com"}
	require.NoError(t, db.Create(&plain).Error)
	euro := models.User{Email: "euro@example.com", BaseCurrency: "EUR"}
	require.NoError(t, db.Create(&euro).Error)

	got, err := prefs.BaseCurrency(ctx, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", got)

	got, err = prefs.BaseCurrency(ctx, euro.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got)

	_, err = prefs.BaseCurrency(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
