package store

import (
	"context"
	"fmt"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Goals struct {
	db *gorm.DB
}

func NewGoals(db *gorm.DB) *Goals {
	return &Goals{db: db}
}

func orderedMilestones(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *Goals) CreateGoal(ctx context.Context, p goals.Payload) (goals.Goal, error) {
	m := goalModel(uuid.New(), p)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return goals.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	return goalFromModel(m), nil
}

// UpdateGoal overwrites the goal's fields and replaces its milestones in a
// single transaction. The goal must belong to p.UserID.
func (s *Goals) UpdateGoal(ctx context.Context, id uuid.UUID, p goals.Payload) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Goal
		if err := tx.Where("id = ? AND user_id = ?", id, p.UserID).First(&existing).Error; err != nil {
			return notFound(err)
		}

		m := goalModel(id, p)
		m.CreatedAt = existing.CreatedAt
		milestones := m.Milestones
		m.Milestones = nil

		if err := tx.Model(&existing).Select("*").Omit("ID", "CreatedAt", "DeletedAt", "Milestones").Updates(&m).Error; err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		if err := tx.Unscoped().Where("goal_id = ?", id).Delete(&models.Milestone{}).Error; err != nil {
			return fmt.Errorf("clear milestones: %w", err)
		}
		if len(milestones) > 0 {
			if err := tx.Create(&milestones).Error; err != nil {
				return fmt.Errorf("insert milestones: %w", err)
			}
		}
		return nil
	})
}

func (s *Goals) Goal(ctx context.Context, userID, id uuid.UUID) (goals.Goal, error) {
	var m models.Goal
	err := s.db.WithContext(ctx).
		Preload("Milestones", orderedMilestones).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		return goals.Goal{}, notFound(err)
	}
	return goalFromModel(m), nil
}

// GoalFilter narrows List. Zero values match everything.
type GoalFilter struct {
	GoalType goals.GoalType
	Status   goals.GoalStatus
	Page     int
	Limit    int
}

// List returns one page of the user's goals, newest first, and the total
// number of goals matching the filter.
func (s *Goals) List(ctx context.Context, userID uuid.UUID, f GoalFilter) ([]goals.Goal, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Goal{}).Where("user_id = ?", userID)
	if f.GoalType != "" {
		q = q.Where("goal_type = ?", f.GoalType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	var rows []models.Goal
	err := q.Preload("Milestones", orderedMilestones).
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]goals.Goal, 0, len(rows))
	for _, r := range rows {
		out = append(out, goalFromModel(r))
	}
	return out, total, nil
}

// Delete soft-deletes the goal and its milestones.
func (s *Goals) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Goal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("goal_id = ?", id).Delete(&models.Milestone{}).Error
	})
}
