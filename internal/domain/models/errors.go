package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures that are reported back to the operator.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
)

// Error is a failure with a message safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicate          = &Error{Kind: KindConflict, Message: "already exists"}
	ErrAlreadyCheckedIn   = &Error{Kind: KindConflict, Message: "employee is already checked in"}
	ErrNotCheckedIn       = &Error{Kind: KindConflict, Message: "employee is not checked in"}
	ErrInsufficientStock  = &Error{Kind: KindConflict, Message: "not enough stock"}
	ErrNoActiveSession    = &Error{Kind: KindConflict, Message: "no active session"}
	ErrSessionInactive    = &Error{Kind: KindConflict, Message: "session is not active"}
	ErrSessionClosed      = &Error{Kind: KindConflict, Message: "session is already closed"}
	ErrSplitMismatch      = &Error{Kind: KindConflict, Message: "cash and card must add up to the session revenue"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "invalid username or password"}
	ErrLastUser           = &Error{Kind: KindConflict, Message: "cannot delete the last user"}
)

// Validationf builds a validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
