package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Budget struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID    *uuid.UUID      `json:"goalId" gorm:"type:uuid;index"`
	Name      string          `json:"name" gorm:"not null"`
	Limit     decimal.Decimal `json:"limit" gorm:"column:limit_amount;type:decimal(20,4);not null"`
	Spent     decimal.Decimal `json:"spent" gorm:"type:decimal(20,4);not null;default:0"`
	Currency  string          `json:"currency" gorm:"size:3;not null"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Budget DTOs
type CreateBudgetRequest struct {
	Name     string          `json:"name" validate:"required"`
	Limit    decimal.Decimal `json:"limit" validate:"required"`
	Currency string          `json:"currency"`
}
