package store

import (
	"context"

	"github.com/arnold/goalplan-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preferences reads per-user settings, falling back to the server defaults
// for anything the user has not set.
type Preferences struct {
	db              *gorm.DB
	defaultCurrency string
}

func NewPreferences(db *gorm.DB, defaultCurrency string) *Preferences {
	return &Preferences{db: db, defaultCurrency: defaultCurrency}
}

func (s *Preferences) BaseCurrency(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "base_currency").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return "", notFound(err)
	}
	if user.BaseCurrency == "" {
		return s.defaultCurrency, nil
	}
	return user.BaseCurrency, nil
}
