package database

import (
	"strings"

	"github.com/arnold/goalplan-api/internal/config"
	"github.com/arnold/goalplan-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	db, err := Open(cfg.DatabaseURL, logger.Default.LogMode(logger.Info))
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to PostgreSQL when url starts with "postgres" and treats it
// as a SQLite path otherwise.
func Open(url string, log logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(url, "postgres") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: log})
}

func Migrate() error {
	return AutoMigrate(DB)
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Milestone{},
		&models.Habit{},
		&models.Task{},
		&models.Budget{},
		&models.Debt{},
		&models.Notification{},
		&models.Activity{},
	)
}
