package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Milestone struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID        uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	Position      int            `json:"position" gorm:"not null"`
	Title         string         `json:"title" gorm:"not null"`
	TargetPercent float64        `json:"targetPercent" gorm:"not null"` // fraction of the goal target, (0,1]
	DueDate       *time.Time     `json:"dueDate"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
