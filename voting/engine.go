// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/store"
)

const meterName = "github.com/danielhkuo/veo/voting"

// Engine accepts or rejects votes. It owns the decision of whether a poll
// is open; callers never pass that in.
type Engine struct {
	store    *store.Store
	now      func() time.Time
	accepted metric.Int64Counter
	rejected metric.Int64Counter
}

// NewEngine builds an engine on s. A nil provider uses the global one.
func NewEngine(s *store.Store, mp metric.MeterProvider) (*Engine, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	accepted, err := meter.Int64Counter("veo.votes.accepted",
		metric.WithDescription("Votes recorded"),
		metric.WithUnit("{vote}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create accepted counter: %w", err)
	}
	rejected, err := meter.Int64Counter("veo.votes.rejected",
		metric.WithDescription("Votes refused, by reason"),
		metric.WithUnit("{vote}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rejected counter: %w", err)
	}

	return &Engine{store: s, now: time.Now, accepted: accepted, rejected: rejected}, nil
}

// SetClock replaces the clock used to decide whether a poll is open.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// State reports whether p is open at now.
func State(p *models.Poll, now time.Time) string {
	if p.IsOpen(now) {
		return models.StateOpen
	}
	return models.StateClosed
}

// Vote records voterID's vote for optionID on pollID. A nil error means the
// vote was accepted. Checks run in order inside the poll's critical section:
//
//	ErrNotFound      the poll or the option does not exist
//	ErrPollClosed    now is at or past the poll's ending
//	ErrAlreadyVoted  the voter already voted on any option of the poll
func (e *Engine) Vote(ctx context.Context, pollID, optionID, voterID string) error {
	if voterID == "" {
		return models.ErrUnauthenticated
	}

	err := e.store.InPollTx(ctx, pollID, func(t *store.PollTx) error {
		p := t.Poll()

		if _, ok := p.Option(optionID); !ok {
			return fmt.Errorf("option %s of poll %s: %w", optionID, pollID, models.ErrNotFound)
		}

		now := e.now()
		if State(p, now) == models.StateClosed {
			return fmt.Errorf("poll %s ended %s: %w", pollID, humanize.RelTime(p.EndingAt, now, "ago", "from now"), models.ErrPollClosed)
		}

		previous, voted, err := t.VoterChoice(ctx, voterID)
		if err != nil {
			return err
		}
		if voted {
			return fmt.Errorf("poll %s, option %s: %w", pollID, previous, models.ErrAlreadyVoted)
		}

		return t.InsertVote(ctx, optionID, voterID)
	})

	e.record(ctx, pollID, optionID, voterID, err)
	return err
}

func (e *Engine) record(ctx context.Context, pollID, optionID, voterID string, err error) {
	// Counters are recorded even when the request was canceled.
	mctx := context.WithoutCancel(ctx)

	if err == nil {
		e.accepted.Add(mctx, 1)
		slog.Info("vote accepted", "poll_id", pollID, "option_id", optionID, "voter_id", voterID)
		return
	}

	reason := models.Code(err)
	e.rejected.Add(mctx, 1, metric.WithAttributes(attribute.String("reason", reason)))

	switch reason {
	case models.CodeStorageUnavailable, models.CodeInternal:
		slog.Error("vote failed", "poll_id", pollID, "option_id", optionID, "voter_id", voterID, "error", err)
	default:
		slog.Info("vote rejected", "poll_id", pollID, "option_id", optionID, "voter_id", voterID, "reason", reason)
	}
}
