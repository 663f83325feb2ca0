// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func opts(names ...string) []Option {
	out := make([]Option, len(names))
	for i, n := range names {
		out[i] = Option{ID: string(rune('a' + i)), Name: n}
	}
	return out
}

func TestValidatePoll(t *testing.T) {
	tests := []struct {
		name      string
		poll      Poll
		wantField string
	}{
		{"valid", Poll{Title: "Lunch", Options: opts("Pizza", "Salad")}, ""},
		{"five options", Poll{Title: "Lunch", Options: opts("1", "2", "3", "4", "5")}, ""},
		{"forty characters", Poll{Title: strings.Repeat("x", 40), Options: opts("A", "B")}, ""},
		{"forty multibyte characters", Poll{Title: strings.Repeat("é", 40), Options: opts("A", "B")}, ""},
		{"names differing in case", Poll{Title: "T", Options: opts("pizza", "Pizza")}, ""},
		{"blank title", Poll{Title: "  ", Options: opts("A", "B")}, "title"},
		{"title too long", Poll{Title: strings.Repeat("x", 41), Options: opts("A", "B")}, "title"},
		{"no options", Poll{Title: "T"}, "options"},
		{"one option", Poll{Title: "T", Options: opts("A")}, "options"},
		{"six options", Poll{Title: "T", Options: opts("1", "2", "3", "4", "5", "6")}, "options"},
		{"duplicate names", Poll{Title: "T", Options: opts("A", "A")}, "options"},
		{"blank name", Poll{Title: "T", Options: opts("A", "")}, "options"},
		{"duplicate ids", Poll{Title: "T", Options: []Option{{ID: "x", Name: "A"}, {ID: "x", Name: "B"}}}, "options"},
		{"missing id", Poll{Title: "T", Options: []Option{{ID: "x", Name: "A"}, {Name: "B"}}}, "options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePoll(&tt.poll)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidatePoll() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ValidatePoll() error = %v, want ErrValidation", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidateEnding(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ending  time.Time
		wantErr bool
	}{
		{"future", now.Add(time.Minute), false},
		{"now", now, true},
		{"past", now.Add(-time.Minute), true},
		{"zero", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEnding(tt.ending, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEnding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestPoll_State(t *testing.T) {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &Poll{EndingAt: end}

	if got := p.State(end.Add(-time.Nanosecond)); got != StateOpen {
		t.Errorf("State before ending = %s, want open", got)
	}
	if got := p.State(end); got != StateClosed {
		t.Errorf("State at ending = %s, want closed", got)
	}
}

func TestPoll_VotedOption(t *testing.T) {
	p := &Poll{Options: []Option{
		{ID: "a", Votes: []string{"u1", "u2"}},
		{ID: "b", Votes: []string{"u3"}},
	}}

	if id, ok := p.VotedOption("u3"); !ok || id != "b" {
		t.Errorf("VotedOption(u3) = %q, %v; want b, true", id, ok)
	}
	if _, ok := p.VotedOption("u4"); ok {
		t.Error("VotedOption(u4) reported a vote")
	}
	if p.TotalVotes() != 3 {
		t.Errorf("TotalVotes() = %d, want 3", p.TotalVotes())
	}
	if _, ok := p.Option("c"); ok {
		t.Error("Option(c) found a missing option")
	}
}
