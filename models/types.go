// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll bounds
const (
	MinOptions     = 2
	MaxOptions     = 5
	MaxTitleLength = 40
)

// Poll states, derived from the clock
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Request types

type CreatePollRequest struct {
	Title   string          `json:"title"`
	Options []OptionRequest `json:"options"`
	Ending  Ending          `json:"ending"`
}

// Options is a full replacement; ids of options that should keep their
// votes must be sent back unchanged.
type EditPollRequest struct {
	Title   *string         `json:"title"`
	Options []OptionRequest `json:"options"`
	Ending  *Ending         `json:"ending"`
}

type OptionRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// Response types

type PollResponse struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	User    string           `json:"user"`
	Options []OptionResponse `json:"options"`
	Ending  Ending           `json:"ending"`
	Open    bool             `json:"open"`
}

type OptionResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Votes []string `json:"votes"`
}

type PollSummaryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Open        bool   `json:"open"`
	Ending      Ending `json:"ending"`
	Ends        string `json:"ends"`
	OptionCount int    `json:"option_count"`
	VoteCount   int    `json:"vote_count"`
}

type VoteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Domain types

// Poll is the aggregate root. Options own their vote sets; all writes go
// through the store's per-poll transaction.
type Poll struct {
	ID        string
	Title     string
	OwnerID   string
	Options   []Option
	EndingAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Option struct {
	ID    string
	Name  string
	Votes []string // voter ids, in cast order
}

// PollPatch carries the editable fields of a poll. Nil fields are left as is.
type PollPatch struct {
	Title    *string
	Options  []Option
	EndingAt *time.Time
}

type PollSummary struct {
	ID          string
	Title       string
	EndingAt    time.Time
	OptionCount int
	VoteCount   int
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// IsOpen reports whether the poll accepts votes at now.
func (p *Poll) IsOpen(now time.Time) bool {
	return now.Before(p.EndingAt)
}

// State returns StateOpen or StateClosed for the given instant.
func (p *Poll) State(now time.Time) string {
	if p.IsOpen(now) {
		return StateOpen
	}
	return StateClosed
}

// Option returns the option with the given id.
func (p *Poll) Option(id string) (*Option, bool) {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// VotedOption returns the id of the option voterID voted for, if any.
func (p *Poll) VotedOption(voterID string) (string, bool) {
	for _, opt := range p.Options {
		for _, v := range opt.Votes {
			if v == voterID {
				return opt.ID, true
			}
		}
	}
	return "", false
}

// TotalVotes counts votes across all options.
func (p *Poll) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += len(opt.Votes)
	}
	return total
}

// Tally types

type OptionTally struct {
	OptionID   string  `json:"option_id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Tally struct {
	PollID     string        `json:"poll_id"`
	Open       bool          `json:"open"`
	TotalVotes int           `json:"total_votes"`
	Options    []OptionTally `json:"options"`
	ComputedAt time.Time     `json:"computed_at"`
}

// Counts returns the tally as an option id -> count map.
func (t *Tally) Counts() map[string]int {
	counts := make(map[string]int, len(t.Options))
	for _, o := range t.Options {
		counts[o.OptionID] = o.Count
	}
	return counts
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}
