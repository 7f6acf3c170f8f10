// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package apperr classifies failures by kind and turns them into the
// {success, message} results shown to users.
package apperr

import (
	"errors"
	"log/slog"
)

// Kind tags an error with the class of failure it represents.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindMissing
	KindInvalid
	KindExpired
	KindConflict
	KindNotFound
	KindUnauthorized
)

var kindNames = map[Kind]string{
	KindInternal:     "internal",
	KindValidation:   "validation",
	KindMissing:      "missing",
	KindInvalid:      "invalid",
	KindExpired:      "expired",
	KindConflict:     "conflict",
	KindNotFound:     "not_found",
	KindUnauthorized: "unauthorized",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// GenericMessage is shown for internal errors.
const GenericMessage = "Something went wrong. Please try again."

// Error is an error with a kind and a message safe to show to users.
type Error struct {
	Err     error
	Message string
	Kind    Kind
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and user-facing message to err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Internal wraps an unexpected error.
func Internal(err error) *Error {
	return Wrap(KindInternal, GenericMessage, err)
}

// KindOf returns the kind of err, KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return GenericMessage
}

// Result is the outcome of a user action.
type Result struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// OK returns a successful result.
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a failed result carrying the message of err.
func Fail(err error) Result {
	return Result{Success: false, Message: Message(err)}
}

// ToResult converts the outcome of an action into a Result.
// Internal errors are logged and reported generically.
func ToResult(err error, successMessage string) Result {
	if err == nil {
		return OK(successMessage)
	}
	if KindOf(err) == KindInternal {
		slog.Error("action_failed", "error", err)
	}
	return Fail(err)
}
