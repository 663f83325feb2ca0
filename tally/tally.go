// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"time"

	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/store"
)

// Service computes vote tallies from stored polls.
type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// SetClock replaces the clock used for the open flag and ComputedAt.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Compute tallies pollID from a single store snapshot, so the option
// counts always add up to TotalVotes.
func (s *Service) Compute(ctx context.Context, pollID string) (*models.Tally, error) {
	p, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return FromPoll(p, s.now()), nil
}

// FromPoll tallies p as of now. Options keep display order. Percentages
// are count/total*100, or 0 for every option when nobody has voted.
func FromPoll(p *models.Poll, now time.Time) *models.Tally {
	t := &models.Tally{
		PollID:     p.ID,
		Open:       p.IsOpen(now),
		TotalVotes: p.TotalVotes(),
		Options:    make([]models.OptionTally, 0, len(p.Options)),
		ComputedAt: now.UTC(),
	}

	for _, opt := range p.Options {
		ot := models.OptionTally{
			OptionID: opt.ID,
			Name:     opt.Name,
			Count:    len(opt.Votes),
		}
		if t.TotalVotes > 0 {
			ot.Percentage = float64(ot.Count) / float64(t.TotalVotes) * 100
		}
		t.Options = append(t.Options, ot)
	}

	return t
}
