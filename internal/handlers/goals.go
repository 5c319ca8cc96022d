package handlers

import (
	"errors"
	"log"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/store"
	"github.com/gofiber/fiber/v2"
)

// GetGoals returns the current user's goals, newest first
func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, limit := paging(c)

	filter := store.GoalFilter{
		GoalType: goals.GoalType(c.Query("goalType")),
		Status:   goals.GoalStatus(c.Query("status")),
		Page:     page,
		Limit:    limit,
	}
	if filter.GoalType != "" && !filter.GoalType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal type",
		})
	}

	list, total, err := goalStore.List(c.UserContext(), userID, filter)
	if err != nil {
		log.Printf("GOALS: list for user %s failed: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	return c.JSON(fiber.Map{
		"goals": list,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetGoal returns one goal with the scenario it resolves to
func GetGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	g, err := goalStore.Goal(c.UserContext(), userID, goalID)
	if err != nil {
		return goalLookupError(c, err)
	}

	return c.JSON(fiber.Map{
		"goal":     g,
		"scenario": goals.ScenarioForGoal(g),
	})
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	if err := goalStore.Delete(c.UserContext(), userID, goalID); err != nil {
		return goalLookupError(c, err)
	}

	LogActivity(userID, &goalID, models.ActionGoalDeleted, nil)
	WS.Send(userID, WSEvent{Type: EventGoalDeleted, GoalID: goalID.String()})

	return c.SendStatus(fiber.StatusNoContent)
}

func goalLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}
	log.Printf("GOALS: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to fetch goal",
	})
}
