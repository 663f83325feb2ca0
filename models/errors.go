// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrPollClosed         = errors.New("poll is closed")
	ErrAlreadyVoted       = errors.New("already voted on this poll")
	ErrConflict           = errors.New("concurrent update conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError describes a rejected field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Error codes reported to clients and used as metric labels.
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeValidation         = "validation_error"
	CodePollClosed         = "poll_closed"
	CodeAlreadyVoted       = "already_voted"
	CodeConflict           = "conflict"
	CodeStorageUnavailable = "storage_unavailable"
	CodeRateLimited        = "rate_limited"
	CodeCanceled           = "canceled"
	CodeInternal           = "internal_error"
)

// Code maps err onto the error taxonomy. Unknown errors are CodeInternal.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrPollClosed):
		return CodePollClosed
	case errors.Is(err, ErrAlreadyVoted):
		return CodeAlreadyVoted
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	default:
		return CodeInternal
	}
}
