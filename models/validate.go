// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ValidatePoll checks the structural invariants of a poll: a non-empty title
// of at most MaxTitleLength characters, MinOptions..MaxOptions options, and
// unique non-empty option ids and names. Names compare exactly.
func ValidatePoll(p *Poll) error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return Invalid("title", "title cannot be blank")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Invalid("title", "maximum length of %d characters", MaxTitleLength)
	}
	return ValidateOptions(p.Options)
}

func ValidateOptions(options []Option) error {
	if len(options) < MinOptions || len(options) > MaxOptions {
		return Invalid("options", "a poll needs between %d and %d options, got %d", MinOptions, MaxOptions, len(options))
	}

	ids := make(map[string]struct{}, len(options))
	names := make(map[string]struct{}, len(options))
	for i, opt := range options {
		if opt.ID == "" {
			return Invalid("options", "option %d has no id", i+1)
		}
		if _, dup := ids[opt.ID]; dup {
			return Invalid("options", "duplicate option id %q", opt.ID)
		}
		ids[opt.ID] = struct{}{}

		if strings.TrimSpace(opt.Name) == "" {
			return Invalid("options", "option %d name cannot be blank", i+1)
		}
		if _, dup := names[opt.Name]; dup {
			return Invalid("options", "duplicate option name %q", opt.Name)
		}
		names[opt.Name] = struct{}{}
	}
	return nil
}

// ValidateEnding requires a closing time strictly after now.
func ValidateEnding(endingAt, now time.Time) error {
	if endingAt.IsZero() {
		return Invalid("ending", "ending cannot be null")
	}
	if !endingAt.After(now) {
		return Invalid("ending", "ending must be in the future")
	}
	return nil
}
