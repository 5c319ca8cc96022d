package handlers

import (
	"encoding/json"

	"github.com/arnold/goalplan-api/internal/database"
	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActivity returns the current user's activity, optionally for one goal
func GetActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, limit := paging(c)

	q := database.DB.Model(&models.Activity{}).Where("user_id = ?", userID)
	if raw := c.Query("goalId"); raw != "" {
		goalID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid goal ID",
			})
		}
		q = q.Where("goal_id = ?", goalID)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	q.Count(&total)

	var activities []models.Activity
	q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&activities)

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

// LogActivity is a helper to create activity entries from other handlers
func LogActivity(userID uuid.UUID, goalID *uuid.UUID, actionType string, metadata map[string]interface{}) {
	activity := models.Activity{
		UserID:     userID,
		GoalID:     goalID,
		ActionType: actionType,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			activity.Metadata = &s
		}
	}

	database.DB.Create(&activity)
}
