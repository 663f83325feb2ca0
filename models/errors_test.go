// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthenticated, CodeUnauthenticated},
		{fmt.Errorf("poll p1: %w", ErrForbidden), CodeForbidden},
		{fmt.Errorf("poll p1: %w", ErrNotFound), CodeNotFound},
		{Invalid("title", "too long"), CodeValidation},
		{fmt.Errorf("vote: %w", ErrPollClosed), CodePollClosed},
		{fmt.Errorf("vote: %w", ErrAlreadyVoted), CodeAlreadyVoted},
		{fmt.Errorf("commit: %w", ErrConflict), CodeConflict},
		{fmt.Errorf("query: %w: disk I/O error", ErrStorageUnavailable), CodeStorageUnavailable},
		{fmt.Errorf("lock: %w", context.Canceled), CodeCanceled},
		{context.DeadlineExceeded, CodeCanceled},
		{errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", Invalid("options", "need %d", 2))

	if !errors.Is(err, ErrValidation) {
		t.Error("Expected wrapped ValidationError to match ErrValidation")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("ValidationError must not match ErrNotFound")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("Expected errors.As to find the ValidationError")
	}
	if ve.Error() != "options: need 2" {
		t.Errorf("Error() = %q", ve.Error())
	}
}
