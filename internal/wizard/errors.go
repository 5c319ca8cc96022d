package wizard

import (
	"errors"
	"fmt"
)

// ErrorKey names the last validation failure shown to the user.
type ErrorKey string

const (
	ErrKeyMissingTitle  ErrorKey = "missingTitle"
	ErrKeyInvalidTarget ErrorKey = "invalidTarget"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrClosed            = errors.New("wizard is closed")
	ErrInvalidState      = errors.New("operation not allowed in current wizard state")
	ErrUnknownTemplate   = errors.New("unknown template")
	ErrUnknownScenario   = errors.New("unknown scenario")
	ErrUnknownGoalType   = errors.New("unknown goal type")
	ErrUnknownMetric     = errors.New("metric type is not selectable")
	ErrUnknownFinance    = errors.New("unknown finance mode")
	ErrUnknownUnit       = errors.New("unit is not available for this goal")
	ErrUnitWithAmount    = errors.New("amount goals have no unit")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrUnknownDateTarget = errors.New("unknown date target")
	ErrUnknownSuggestion = errors.New("unknown suggestion")
)

// ValidationError is returned by Submit when the draft is rejected. The same
// key is stored on the draft.
type ValidationError struct {
	Key ErrorKey
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Key)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
