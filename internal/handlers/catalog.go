package handlers

import (
	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/gofiber/fiber/v2"
)

// GetUnits lists the units eligible for metricType and goalType, or every
// unit when metricType is omitted. grouped=true groups them by category.
func GetUnits(c *fiber.Ctx) error {
	metric := goals.MetricType(c.Query("metricType"))
	goalType := goals.GoalType(c.Query("goalType"))

	units := goalCat.Units()
	if metric != "" {
		units = goalCat.AvailableUnits(metric, goalType)
	}
	if units == nil {
		units = []catalog.Unit{}
	}

	if c.QueryBool("grouped") {
		return c.JSON(catalog.UnitsByCategory(units))
	}
	return c.JSON(units)
}

func GetDefaultUnit(c *fiber.Ctx) error {
	metric := goals.MetricType(c.Query("metricType"))
	goalType := goals.GoalType(c.Query("goalType"))
	return c.JSON(fiber.Map{
		"unit": catalog.SmartDefaultUnit(metric, goalType),
	})
}

func GetTemplates(c *fiber.Ctx) error {
	return c.JSON(goalCat.Templates())
}

func GetScenarios(c *fiber.Ctx) error {
	type scenarioInfo struct {
		Scenario   goals.Scenario `json:"scenario"`
		TemplateID string         `json:"templateId,omitempty"`
	}
	out := make([]scenarioInfo, 0, len(goals.Scenarios))
	for _, s := range goals.Scenarios {
		id, _ := s.TemplateID()
		out = append(out, scenarioInfo{Scenario: s, TemplateID: id})
	}
	return c.JSON(out)
}

func GetSuggestions(c *fiber.Ctx) error {
	goalType := goals.GoalType(c.Params("goalType"))
	if !goalType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal type",
		})
	}
	return c.JSON(fiber.Map{
		"habits": goalCat.HabitSuggestions(goalType),
		"tasks":  goalCat.TaskSuggestions(goalType),
	})
}
