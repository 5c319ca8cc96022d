package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID      *uuid.UUID     `json:"goalId" gorm:"type:uuid;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Priority    string         `json:"priority" gorm:"not null;default:'medium'"` // low, medium, high
	Context     string         `json:"context" gorm:"not null;default:'personal'"`
	IsCompleted bool           `json:"isCompleted" gorm:"default:false"`
	CompletedAt *time.Time     `json:"completedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
