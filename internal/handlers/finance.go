package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/store"
	"github.com/arnold/goalplan-api/internal/wizard"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetBudgets(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	budgets, err := financeStore.Budgets(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch budgets",
		})
	}
	return c.JSON(budgets)
}

func GetDebts(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	debts, err := financeStore.Debts(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch debts",
		})
	}
	return c.JSON(debts)
}

// resolveCurrency validates code, or falls back to the user's base currency.
func resolveCurrency(c *fiber.Ctx, userID uuid.UUID, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return preferences.BaseCurrency(c.UserContext(), userID)
	}
	return wizard.NormalizeCurrency(code)
}

func CreateBudget(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(req.Name) == "" || !req.Limit.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and a positive limit are required",
		})
	}
	currency, err := resolveCurrency(c, userID, req.Currency)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid currency",
		})
	}

	budget := models.Budget{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Limit:    req.Limit,
		Currency: currency,
	}
	if err := financeStore.CreateBudget(c.UserContext(), &budget); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create budget",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(budget)
}

func CreateDebt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateDebtRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(req.Name) == "" || !req.Principal.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and a positive principal are required",
		})
	}
	currency, err := resolveCurrency(c, userID, req.Currency)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid currency",
		})
	}

	balance := req.Principal
	if req.Balance != nil {
		balance = *req.Balance
	}
	debt := models.Debt{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Principal: req.Principal,
		Balance:   balance,
		Currency:  currency,
		DueDate:   req.DueDate,
	}
	if err := financeStore.CreateDebt(c.UserContext(), &debt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create debt",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(debt)
}

// LinkGoalBudget creates a budget from a spend goal
func LinkGoalBudget(c *fiber.Ctx) error {
	return linkGoal(c, func(s *store.Finance, c *fiber.Ctx, userID, goalID uuid.UUID) (interface{}, error) {
		g, err := goalStore.Goal(c.UserContext(), userID, goalID)
		if err != nil {
			return nil, err
		}
		return s.BudgetForGoal(c.UserContext(), g)
	})
}

// LinkGoalDebt creates a debt from a debt_close goal
func LinkGoalDebt(c *fiber.Ctx) error {
	return linkGoal(c, func(s *store.Finance, c *fiber.Ctx, userID, goalID uuid.UUID) (interface{}, error) {
		g, err := goalStore.Goal(c.UserContext(), userID, goalID)
		if err != nil {
			return nil, err
		}
		return s.DebtForGoal(c.UserContext(), g)
	})
}

func linkGoal(c *fiber.Ctx, create func(*store.Finance, *fiber.Ctx, uuid.UUID, uuid.UUID) (interface{}, error)) error {
	userID := middleware.GetUserID(c)
	goalID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	record, err := create(financeStore, c, userID, goalID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	case errors.Is(err, store.ErrNotFinanceGoal):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case err != nil:
		log.Printf("FINANCE: link goal %s failed: %v", goalID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to link goal",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}
