package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionGoalCreated       = "goal_created"
	ActionGoalUpdated       = "goal_updated"
	ActionGoalDeleted       = "goal_deleted"
	ActionAutoPlanCommitted = "auto_plan_committed"
	ActionAutoPlanSkipped   = "auto_plan_skipped"
)

type Activity struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID     *uuid.UUID     `json:"goalId" gorm:"type:uuid;index"`
	ActionType string         `json:"actionType" gorm:"not null"`
	Metadata   *string        `json:"metadata"` // JSON string for extra context
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
