package core

import (
	"errors"
	"fmt"
)

// ValidationError reports an invalid flag or mode combination. Validation
// errors are fatal and detected before any catalog query.
type ValidationError struct {
	Msg string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a *ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ResolutionError reports an unresolvable target or connector identifier.
// Resolution errors are fatal and abort before any mutation.
type ResolutionError struct {
	Msg string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string { return e.Msg }

// Resolutionf builds a *ResolutionError from a format string.
func Resolutionf(format string, args ...any) error {
	return &ResolutionError{Msg: fmt.Sprintf(format, args...)}
}

// StaleSelectionError reports a refused snapshot: either too old, or an
// apply was requested against a snapshot without the explicit override.
// This is a safety gate, not a recoverable condition.
type StaleSelectionError struct {
	Msg string
}

// Error implements the error interface.
func (e *StaleSelectionError) Error() string { return e.Msg }

// Stalef builds a *StaleSelectionError from a format string.
func Stalef(format string, args ...any) error {
	return &StaleSelectionError{Msg: fmt.Sprintf(format, args...)}
}

// Process exit codes. Per-target apply failures and empty filtered
// selections use the generic failure code.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitResolution = 3
	ExitStale      = 4
)

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		ve *ValidationError
		re *ResolutionError
		se *StaleSelectionError
	)
	switch {
	case errors.As(err, &ve):
		return ExitValidation
	case errors.As(err, &re):
		return ExitResolution
	case errors.As(err, &se):
		return ExitStale
	}
	return ExitFailure
}
