package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Habit struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID            *uuid.UUID     `json:"goalId" gorm:"type:uuid;index"`
	Title             string         `json:"title" gorm:"not null"`
	Description       string         `json:"description"`
	Frequency         string         `json:"frequency" gorm:"not null"`                  // daily, weekly, ...
	CompletionMode    string         `json:"completionMode" gorm:"default:'boolean'"`    // boolean
	Status            string         `json:"status" gorm:"not null;default:'active'"`    // active, paused
	HabitType         string         `json:"habitType" gorm:"not null;default:'health'"` // health, productivity
	CompletionHistory []time.Time    `json:"completionHistory" gorm:"serializer:json"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
