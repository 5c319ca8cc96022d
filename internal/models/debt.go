package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Debt struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID    *uuid.UUID      `json:"goalId" gorm:"type:uuid;index"`
	Name      string          `json:"name" gorm:"not null"`
	Principal decimal.Decimal `json:"principal" gorm:"type:decimal(20,4);not null"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(20,4);not null"`
	Currency  string          `json:"currency" gorm:"size:3;not null"`
	DueDate   *time.Time      `json:"dueDate"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Debt DTOs
type CreateDebtRequest struct {
	Name      string           `json:"name" validate:"required"`
	Principal decimal.Decimal  `json:"principal" validate:"required"`
	Balance   *decimal.Decimal `json:"balance"`
	Currency  string           `json:"currency"`
	DueDate   *time.Time       `json:"dueDate"`
}
