// Package errors contains error types and helpers shared by the whole
// application.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// RuntimeError is an error with an optional cause and a hint for the user on
// how to resolve it.
type RuntimeError struct {
	Msg   string
	Cause error
	Hint  string
}

// NewRuntimeError creates a new RuntimeError.
func NewRuntimeError(msg string, cause error, hint string) *RuntimeError {
	return &RuntimeError{Msg: msg, Cause: cause, Hint: hint}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Errorf logs an error using the default slog logger, rendering the cause and
// hint of a RuntimeError as separate fields.
func Errorf(err error) {
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		slog.Error(err.Error())
		return
	}

	args := make([]any, 0, 4)
	if rerr.Cause != nil {
		args = append(args, "cause", rerr.Cause)
	}
	if rerr.Hint != "" {
		args = append(args, "hint", rerr.Hint)
	}
	slog.Error(rerr.Msg, args...)
}
