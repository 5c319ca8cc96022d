package store

import (
	"context"

	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/wizard"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Habits struct {
	db *gorm.DB
}

func NewHabits(db *gorm.DB) *Habits {
	return &Habits{db: db}
}

func (s *Habits) CreateHabit(ctx context.Context, p wizard.HabitPayload) error {
	goalID := p.GoalID
	h := models.Habit{
		UserID:            p.UserID,
		GoalID:            &goalID,
		Title:             p.Title,
		Description:       p.Description,
		Frequency:         p.Frequency,
		CompletionMode:    p.CompletionMode,
		Status:            p.Status,
		HabitType:         p.HabitType,
		CompletionHistory: p.CompletionHistory,
	}
	return s.db.WithContext(ctx).Create(&h).Error
}

// ForGoal lists the user's habits linked to goalID.
func (s *Habits) ForGoal(ctx context.Context, userID, goalID uuid.UUID) ([]models.Habit, error) {
	var out []models.Habit
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND goal_id = ?", userID, goalID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

type Tasks struct {
	db *gorm.DB
}

func NewTasks(db *gorm.DB) *Tasks {
	return &Tasks{db: db}
}

func (s *Tasks) CreateTask(ctx context.Context, p wizard.TaskPayload) error {
	goalID := p.GoalID
	t := models.Task{
		UserID:      p.UserID,
		GoalID:      &goalID,
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Context:     p.Context,
	}
	return s.db.WithContext(ctx).Create(&t).Error
}

func (s *Tasks) ForGoal(ctx context.Context, userID, goalID uuid.UUID) ([]models.Task, error) {
	var out []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND goal_id = ?", userID, goalID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
