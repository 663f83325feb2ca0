// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/danielhkuo/veo/db"
)

// Store persists polls, options, votes and users. It is the only shared
// mutable resource in the service and the sole transaction boundary.
type Store struct {
	conn    *sql.DB
	dialect db.Dialect
	sb      sq.StatementBuilderType
	locks   *keyedMutex
	now     func() time.Time
}

func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{
		conn:    conn,
		dialect: dialect,
		sb:      dialect.Builder(),
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// SetClock replaces the clock used for created_at/updated_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func exec(ctx context.Context, q queryer, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.ExecContext(ctx, query, args...)
}

func query(ctx context.Context, q queryer, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryContext(ctx, query, args...)
}

func queryRow(ctx context.Context, q queryer, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryRowContext(ctx, query, args...), nil
}

// snapshotOptions returns transaction options giving one consistent view
// across several statements.
func (s *Store) snapshotOptions() *sql.TxOptions {
	if s.dialect == db.Postgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	// A SQLite transaction already reads from a single snapshot.
	return nil
}
