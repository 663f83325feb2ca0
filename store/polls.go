// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"github.com/danielhkuo/veo/db"
	"github.com/danielhkuo/veo/models"
)

// CreatePoll validates and persists a new poll with its options.
// Missing poll and option ids are filled with UUIDs. Votes on the
// given options are ignored.
func (s *Store) CreatePoll(ctx context.Context, p *models.Poll) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Options {
		if p.Options[i].ID == "" {
			p.Options[i].ID = uuid.NewString()
		}
		p.Options[i].Votes = []string{}
	}
	if p.OwnerID == "" {
		return "", models.Invalid("user", "poll owner is required")
	}
	if p.EndingAt.IsZero() {
		return "", models.Invalid("ending", "ending cannot be null")
	}
	if err := models.ValidatePoll(p); err != nil {
		return "", err
	}

	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.EndingAt = p.EndingAt.UTC()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", classify(err, "begin transaction")
	}
	defer tx.Rollback()

	_, err = exec(ctx, tx, s.sb.Insert("poll").
		Columns("id", "title", "owner_id", "ending_at", "created_at", "updated_at").
		Values(p.ID, p.Title, p.OwnerID, p.EndingAt, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return "", classify(err, "insert poll")
	}

	for i, opt := range p.Options {
		if err := s.insertOption(ctx, tx, p.ID, i, opt); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", classify(err, "commit poll")
	}

	return p.ID, nil
}

// GetPoll loads a poll with its options and vote sets from a single
// snapshot.
func (s *Store) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	tx, err := s.conn.BeginTx(ctx, s.snapshotOptions())
	if err != nil {
		return nil, classify(err, "begin transaction")
	}
	defer tx.Rollback()

	p, err := s.selectPoll(ctx, tx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.selectVotes(ctx, tx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, classify(err, "commit read")
	}
	return p, nil
}

// UpdatePoll applies patch on behalf of requesterID, who must own the poll.
// Options whose id is kept retain their votes; votes on removed options are
// deleted with them.
func (s *Store) UpdatePoll(ctx context.Context, id string, patch models.PollPatch, requesterID string) (*models.Poll, error) {
	var updated *models.Poll

	err := s.InPollTx(ctx, id, func(t *PollTx) error {
		current := t.Poll()
		if current.OwnerID != requesterID {
			return fmt.Errorf("poll %s: %w", id, models.ErrForbidden)
		}

		next := *current
		if patch.Title != nil {
			next.Title = *patch.Title
		}
		if patch.EndingAt != nil {
			next.EndingAt = patch.EndingAt.UTC()
		}
		if patch.Options != nil {
			next.Options = make([]models.Option, len(patch.Options))
			for i, opt := range patch.Options {
				if opt.ID == "" {
					opt.ID = uuid.NewString()
				}
				next.Options[i] = models.Option{ID: opt.ID, Name: opt.Name}
			}
		}
		if err := models.ValidatePoll(&next); err != nil {
			return err
		}

		next.UpdatedAt = s.now().UTC()
		if err := t.writeHeader(ctx, &next); err != nil {
			return err
		}
		if patch.Options != nil {
			if err := t.replaceOptions(ctx, current.Options, next.Options); err != nil {
				return err
			}
		}

		t.poll = &next
		if err := t.LoadVotes(ctx); err != nil {
			return err
		}
		updated = t.poll
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListPollsByOwner returns summaries of the polls created by ownerID,
// newest first.
func (s *Store) ListPollsByOwner(ctx context.Context, ownerID string) ([]models.PollSummary, error) {
	rows, err := query(ctx, s.conn, s.sb.
		Select(
			"p.id", "p.title", "p.ending_at",
			"(SELECT COUNT(*) FROM poll_option o WHERE o.poll_id = p.id)",
			"(SELECT COUNT(*) FROM vote v WHERE v.poll_id = p.id)",
		).
		From("poll p").
		Where(sq.Eq{"p.owner_id": ownerID}).
		OrderBy("p.created_at DESC", "p.id"))
	if err != nil {
		return nil, classify(err, "list polls")
	}
	defer rows.Close()

	summaries := []models.PollSummary{}
	for rows.Next() {
		var ps models.PollSummary
		if err := rows.Scan(&ps.ID, &ps.Title, &ps.EndingAt, &ps.OptionCount, &ps.VoteCount); err != nil {
			return nil, classify(err, "scan poll summary")
		}
		ps.EndingAt = ps.EndingAt.UTC()
		summaries = append(summaries, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list polls")
	}
	return summaries, nil
}

// InPollTx runs fn inside the critical section of one poll: an in-process
// lock on the poll id, a transaction, and on Postgres a row lock on the poll.
// The poll header and options are loaded before fn runs; ErrNotFound is
// returned if the poll does not exist. fn's error rolls the transaction back.
func (s *Store) InPollTx(ctx context.Context, pollID string, fn func(t *PollTx) error) error {
	unlock, err := s.locks.Lock(ctx, pollID)
	if err != nil {
		return fmt.Errorf("waiting for poll %s: %w", pollID, err)
	}
	defer unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer tx.Rollback()

	p, err := s.selectPoll(ctx, tx, pollID, true)
	if err != nil {
		return err
	}

	t := &PollTx{store: s, tx: tx, poll: p}
	if err := fn(t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "commit poll transaction")
	}
	return nil
}

// PollTx is the view of one poll inside InPollTx.
type PollTx struct {
	store *Store
	tx    *sql.Tx
	poll  *models.Poll
}

// Poll returns the poll header and options. Vote sets are empty unless
// LoadVotes was called.
func (t *PollTx) Poll() *models.Poll {
	return t.poll
}

// LoadVotes fills the vote sets of the loaded options.
func (t *PollTx) LoadVotes(ctx context.Context) error {
	return t.store.selectVotes(ctx, t.tx, t.poll)
}

// VoterChoice returns the option voterID voted for on this poll, if any.
func (t *PollTx) VoterChoice(ctx context.Context, voterID string) (string, bool, error) {
	row, err := queryRow(ctx, t.tx, t.store.sb.
		Select("option_id").
		From("vote").
		Where(sq.Eq{"poll_id": t.poll.ID, "voter_id": voterID}))
	if err != nil {
		return "", false, err
	}

	var optionID string
	err = row.Scan(&optionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify(err, "query vote")
	}
	return optionID, true, nil
}

// InsertVote records voterID's vote for optionID. A second vote by the same
// voter on this poll fails with ErrAlreadyVoted, whichever option it names.
func (t *PollTx) InsertVote(ctx context.Context, optionID, voterID string) error {
	_, err := exec(ctx, t.tx, t.store.sb.Insert("vote").
		Columns("poll_id", "voter_id", "option_id", "cast_at").
		Values(t.poll.ID, voterID, optionID, t.store.now().UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("poll %s: %w", t.poll.ID, models.ErrAlreadyVoted)
		}
		return classify(err, "insert vote")
	}

	if opt, ok := t.poll.Option(optionID); ok {
		opt.Votes = append(opt.Votes, voterID)
	}
	return nil
}

func (t *PollTx) writeHeader(ctx context.Context, p *models.Poll) error {
	_, err := exec(ctx, t.tx, t.store.sb.Update("poll").
		Set("title", p.Title).
		Set("ending_at", p.EndingAt).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}))
	if err != nil {
		return classify(err, "update poll")
	}
	return nil
}

// replaceOptions turns the stored option list into next: removed options go
// with their votes, kept options are renamed and reordered in place, new
// options are inserted.
func (t *PollTx) replaceOptions(ctx context.Context, current, next []models.Option) error {
	pollID := t.poll.ID

	existing := make(map[string]struct{}, len(current))
	for _, opt := range current {
		existing[opt.ID] = struct{}{}
	}
	removed := make(map[string]struct{}, len(current))
	for id := range existing {
		removed[id] = struct{}{}
	}
	for _, opt := range next {
		delete(removed, opt.ID)
	}

	if len(removed) > 0 {
		ids := maps.Keys(removed)
		slices.Sort(ids)

		res, err := exec(ctx, t.tx, t.store.sb.Delete("vote").
			Where(sq.Eq{"poll_id": pollID, "option_id": ids}))
		if err != nil {
			return classify(err, "delete votes of removed options")
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			slog.Info("votes dropped with removed options", "poll_id", pollID, "options", len(ids), "votes", n)
		}

		_, err = exec(ctx, t.tx, t.store.sb.Delete("poll_option").
			Where(sq.Eq{"poll_id": pollID, "id": ids}))
		if err != nil {
			return classify(err, "delete removed options")
		}
	}

	for i, opt := range next {
		if _, ok := existing[opt.ID]; ok {
			_, err := exec(ctx, t.tx, t.store.sb.Update("poll_option").
				Set("name", opt.Name).
				Set("position", i).
				Where(sq.Eq{"poll_id": pollID, "id": opt.ID}))
			if err != nil {
				return classify(err, "update option")
			}
			continue
		}
		if err := t.store.insertOption(ctx, t.tx, pollID, i, opt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertOption(ctx context.Context, q queryer, pollID string, position int, opt models.Option) error {
	_, err := exec(ctx, q, s.sb.Insert("poll_option").
		Columns("poll_id", "id", "position", "name").
		Values(pollID, opt.ID, position, opt.Name))
	if err != nil {
		return classify(err, "insert option")
	}
	return nil
}

// selectPoll loads the poll header and ordered options. With lock set the
// poll row is locked for the rest of the transaction on Postgres.
func (s *Store) selectPoll(ctx context.Context, q queryer, id string, lock bool) (*models.Poll, error) {
	b := s.sb.Select("id", "title", "owner_id", "ending_at", "created_at", "updated_at").
		From("poll").
		Where(sq.Eq{"id": id})
	if lock && s.dialect == db.Postgres {
		b = b.Suffix("FOR UPDATE")
	}

	row, err := queryRow(ctx, q, b)
	if err != nil {
		return nil, err
	}

	var p models.Poll
	err = row.Scan(&p.ID, &p.Title, &p.OwnerID, &p.EndingAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "query poll")
	}
	p.EndingAt = p.EndingAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	rows, err := query(ctx, q, s.sb.Select("id", "name").
		From("poll_option").
		Where(sq.Eq{"poll_id": id}).
		OrderBy("position", "id"))
	if err != nil {
		return nil, classify(err, "query options")
	}
	defer rows.Close()

	p.Options = []models.Option{}
	for rows.Next() {
		opt := models.Option{Votes: []string{}}
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, classify(err, "scan option")
		}
		p.Options = append(p.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query options")
	}

	return &p, nil
}

// selectVotes replaces the vote sets of p's options, in cast order.
func (s *Store) selectVotes(ctx context.Context, q queryer, p *models.Poll) error {
	rows, err := query(ctx, q, s.sb.Select("option_id", "voter_id").
		From("vote").
		Where(sq.Eq{"poll_id": p.ID}).
		OrderBy("cast_at", "voter_id"))
	if err != nil {
		return classify(err, "query votes")
	}
	defer rows.Close()

	index := make(map[string]int, len(p.Options))
	for i := range p.Options {
		p.Options[i].Votes = []string{}
		index[p.Options[i].ID] = i
	}

	for rows.Next() {
		var optionID, voterID string
		if err := rows.Scan(&optionID, &voterID); err != nil {
			return classify(err, "scan vote")
		}
		if i, ok := index[optionID]; ok {
			p.Options[i].Votes = append(p.Options[i].Votes, voterID)
		}
	}
	if err := rows.Err(); err != nil {
		return classify(err, "query votes")
	}
	return nil
}
