package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// GoalStore persists goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, p goals.Payload) (goals.Goal, error)
	UpdateGoal(ctx context.Context, id uuid.UUID, p goals.Payload) error
	Goal(ctx context.Context, userID, id uuid.UUID) (goals.Goal, error)
}

type HabitStore interface {
	CreateHabit(ctx context.Context, p HabitPayload) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, p TaskPayload) error
}

// FinancePreferences supplies the currency new money goals default to.
type FinancePreferences interface {
	BaseCurrency(ctx context.Context, userID uuid.UUID) (string, error)
}

// Localizer supplies the default milestone title.
type Localizer interface {
	MilestoneTitle(percent int) string
}

type englishTitles struct{}

func (englishTitles) MilestoneTitle(percent int) string { return goals.MilestoneTitle(percent) }

const (
	CompletionModeBoolean = "boolean"
	HabitStatusActive     = "active"
	HabitTypeHealth       = "health"
	HabitTypeProductivity = "productivity"
	TaskContextPersonal   = "personal"
)

// HabitPayload is a habit generated from an auto-plan suggestion.
type HabitPayload struct {
	UserID            uuid.UUID
	GoalID            uuid.UUID
	Title             string
	Description       string
	Frequency         string
	CompletionMode    string
	Status            string
	HabitType         string
	CompletionHistory []time.Time
}

// TaskPayload is a task generated from an auto-plan suggestion.
type TaskPayload struct {
	UserID      uuid.UUID
	GoalID      uuid.UUID
	Title       string
	Description string
	Priority    string
	Context     string
}

var ErrInvalidCurrency = errors.New("invalid currency code")

// NormalizeCurrency upper-cases code and checks it is an ISO 4217 currency.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return unit.String(), nil
}
