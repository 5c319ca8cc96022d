package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Goal struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description"`
	GoalType        string         `json:"goalType" gorm:"not null;index"` // financial, health, education, productivity, personal
	Status          string         `json:"status" gorm:"not null;default:'active'"`
	MetricType      string         `json:"metricType" gorm:"not null"`
	Unit            *string        `json:"unit"`        // non-amount goals only
	FinanceMode     *string        `json:"financeMode"` // amount goals only
	Currency        *string        `json:"currency" gorm:"size:3"`
	InitialValue    float64        `json:"initialValue"`
	TargetValue     float64        `json:"targetValue" gorm:"not null"`
	StartDate       time.Time      `json:"startDate" gorm:"not null"`
	TargetDate      *time.Time     `json:"targetDate"`
	ProgressPercent float64        `json:"progressPercent"`
	StatsKind       string         `json:"statsKind"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
	Milestones      []Milestone    `json:"milestones,omitempty" gorm:"foreignKey:GoalID"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
