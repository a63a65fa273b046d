package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that the addressed volcano does not exist or has
	// no current status.
	ErrNotFound = errors.New("not found")
	// ErrResourceExhausted signals that storage could not be reached within
	// the pool's wait policy. Safe for callers to retry.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// ValidationError rejects a submission whose fields violate the request
// contract. Never retried; no writes happen before it is raised.
type ValidationError struct {
	Field   string
	Allowed []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("%s must be one of: %s", e.Field, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewInvalidLevelError builds the validation failure for a level outside the
// canonical set, naming the allowed values.
func NewInvalidLevelError() *ValidationError {
	return &ValidationError{Field: "level", Allowed: AllowedLevels()}
}
