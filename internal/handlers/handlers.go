package handlers

import (
	"strconv"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/config"
	"github.com/arnold/goalplan-api/internal/database"
	"github.com/arnold/goalplan-api/internal/i18n"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	appConfig *config.Config
	goalCat   *catalog.Catalog
	bundle    *i18n.Bundle

	goalStore    *store.Goals
	habitStore   *store.Habits
	taskStore    *store.Tasks
	financeStore *store.Finance
	preferences  *store.Preferences
)

// Init wires the handlers to the catalog, string tables and the stores
// backed by database.DB. It must run after database.Connect.
func Init(cfg *config.Config, cat *catalog.Catalog, b *i18n.Bundle) {
	appConfig = cfg
	goalCat = cat
	bundle = b

	goalStore = store.NewGoals(database.DB)
	habitStore = store.NewHabits(database.DB)
	taskStore = store.NewTasks(database.DB)
	financeStore = store.NewFinance(database.DB)
	preferences = store.NewPreferences(database.DB, cfg.DefaultCurrency)
}

func paging(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// userLanguage resolves the language for userID: the stored locale, then the
// request's Accept-Language, then the configured default.
func userLanguage(c *fiber.Ctx, userID uuid.UUID) string {
	var user models.User
	if err := database.DB.Select("id", "locale").Where("id = ?", userID).First(&user).Error; err == nil && user.Locale != "" {
		return bundle.Match(user.Locale)
	}
	if header := c.Get(fiber.HeaderAcceptLanguage); header != "" {
		return bundle.Match(header)
	}
	return bundle.Match(appConfig.DefaultLocale)
}
