package prune

import (
	"errors"
	"fmt"
)

// Sentinel errors for pruning operations.
var (
	// ErrInvalidConfig indicates invalid strategy configuration.
	ErrInvalidConfig = errors.New("invalid strategy configuration")

	// ErrUnknownStrategy indicates a prune call named an unregistered strategy.
	ErrUnknownStrategy = errors.New("unknown pruning strategy")

	// ErrInvalidBudget indicates a caller contract violation on the token
	// arguments (maxTokens must be positive, currentTokens non-negative).
	ErrInvalidBudget = errors.New("invalid token budget")

	// ErrBudgetInfeasible indicates system messages alone exceed maxTokens;
	// no pruning of regular messages can satisfy the budget.
	ErrBudgetInfeasible = errors.New("system messages alone exceed the token budget")
)

// Error provides structured context for pruning failures.
type Error struct {
	// Op is the operation that failed (e.g. "Prune", "RegisterStrategy").
	Op string

	// Strategy is the strategy type involved, if any.
	Strategy string

	// Err is the underlying error.
	Err error

	// Context holds additional key-value pairs for debugging.
	Context map[string]any
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	msg := fmt.Sprintf("prune %s failed", e.Op)
	if e.Strategy != "" {
		msg += fmt.Sprintf(" for strategy %q", e.Strategy)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error for the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:      op,
		Err:     err,
		Context: make(map[string]any),
	}
}

// WithStrategy sets the strategy type and returns the error for chaining.
func (e *Error) WithStrategy(strategy string) *Error {
	e.Strategy = strategy
	return e
}

// WithContext adds a key-value pair and returns the error for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
