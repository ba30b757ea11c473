package model

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure. Failures are returned, never panicked.
type Code string

const (
	CodeNotFound             Code = "not_found"
	CodeAlreadyCompleted     Code = "already_completed"
	CodeAlreadyUndone        Code = "already_undone"
	CodeInsufficientBalance  Code = "insufficient_balance"
	CodeRequirementsNotMet   Code = "requirements_not_met"
	CodePrerequisitesNotMet  Code = "prerequisites_not_met"
	CodeNotUndoable          Code = "not_undoable"
	CodeProgressInsufficient Code = "progress_insufficient"
	CodeInvalidInput         Code = "invalid_input"
)

// Failure is a user-facing domain error. Message is short enough to show
// directly in a toast or CLI line.
type Failure struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return string(f.Code)
	}
	return f.Message
}

// Is matches any Failure carrying the same code, so callers can write
// errors.Is(err, model.ErrNotFound) regardless of the message.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	return t.Code == f.Code
}

func Fail(code Code, format string, args ...any) *Failure {
	return &Failure{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNotFound             = &Failure{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyCompleted     = &Failure{Code: CodeAlreadyCompleted, Message: "already completed"}
	ErrAlreadyUndone        = &Failure{Code: CodeAlreadyUndone, Message: "already undone"}
	ErrInsufficientBalance  = &Failure{Code: CodeInsufficientBalance, Message: "insufficient balance"}
	ErrRequirementsNotMet   = &Failure{Code: CodeRequirementsNotMet, Message: "requirements not met"}
	ErrPrerequisitesNotMet  = &Failure{Code: CodePrerequisitesNotMet, Message: "prerequisites not met"}
	ErrNotUndoable          = &Failure{Code: CodeNotUndoable, Message: "this action cannot be undone"}
	ErrProgressInsufficient = &Failure{Code: CodeProgressInsufficient, Message: "progress insufficient"}
	ErrInvalidInput         = &Failure{Code: CodeInvalidInput, Message: "invalid input"}
)

// CodeOf extracts the failure code from err, or "" when err is not a Failure.
func CodeOf(err error) Code {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}
