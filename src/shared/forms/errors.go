package forms

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the caller turns into user-visible text.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrAlreadyDecided   = errors.New("submission already decided")
	ErrSessionExpired   = errors.New("setup session expired")
)

// ValidationError carries the reason the user must correct. Session and
// store state are untouched when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-correctable validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InfrastructureError wraps a store or messaging failure. The user sees a
// generic retry message carrying Ref; the cause goes to the log.
type InfrastructureError struct {
	Ref string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("infrastructure failure [%s]: %v", e.Ref, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }
