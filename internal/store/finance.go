package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNotFinanceGoal = errors.New("goal does not have the required finance mode")

// Finance keeps the budgets and debts that money goals can be linked to.
type Finance struct {
	db *gorm.DB
}

func NewFinance(db *gorm.DB) *Finance {
	return &Finance{db: db}
}

func (s *Finance) Budgets(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	var out []models.Budget
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Finance) Debts(ctx context.Context, userID uuid.UUID) ([]models.Debt, error) {
	var out []models.Debt
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Finance) CreateBudget(ctx context.Context, b *models.Budget) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Finance) CreateDebt(ctx context.Context, d *models.Debt) error {
	return s.db.WithContext(ctx).Create(d).Error
}

// BudgetForGoal creates a budget for a spend goal. The limit is the goal
// target and whatever the goal started at counts as already spent.
func (s *Finance) BudgetForGoal(ctx context.Context, g goals.Goal) (*models.Budget, error) {
	amount, ok := g.Payload.Amount()
	if !ok || amount.FinanceMode != goals.FinanceSpend {
		return nil, fmt.Errorf("%w: want %s", ErrNotFinanceGoal, goals.FinanceSpend)
	}
	goalID := g.ID
	b := &models.Budget{
		UserID:   g.Payload.UserID,
		GoalID:   &goalID,
		Name:     g.Payload.Title,
		Limit:    decimal.NewFromFloat(g.Payload.TargetValue),
		Spent:    decimal.NewFromFloat(g.Payload.InitialValue),
		Currency: amount.Currency,
	}
	if err := s.CreateBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DebtForGoal creates a debt for a debt_close goal. The balance is what is
// left after the amount already repaid.
func (s *Finance) DebtForGoal(ctx context.Context, g goals.Goal) (*models.Debt, error) {
	amount, ok := g.Payload.Amount()
	if !ok || amount.FinanceMode != goals.FinanceDebtClose {
		return nil, fmt.Errorf("%w: want %s", ErrNotFinanceGoal, goals.FinanceDebtClose)
	}
	principal := decimal.NewFromFloat(g.Payload.TargetValue)
	balance := principal.Sub(decimal.NewFromFloat(g.Payload.InitialValue))
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	goalID := g.ID
	d := &models.Debt{
		UserID:    g.Payload.UserID,
		GoalID:    &goalID,
		Name:      g.Payload.Title,
		Principal: principal,
		Balance:   balance,
		Currency:  amount.Currency,
		DueDate:   g.Payload.TargetDate,
	}
	if err := s.CreateDebt(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
