// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Dialects

Two backends are supported, selected by DATABASE_TYPE:

  - sqlite (default): modernc.org/sqlite, one connection, WAL, busy_timeout
  - postgres: github.com/lib/pq

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(dialect, cfg.DatabaseURL)

Dialect.Builder returns a squirrel statement builder using the dialect's
placeholder style ($1 for Postgres, ? for SQLite).

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, dialect); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: accounts (email unique, bcrypt hash)
  - poll: title, owner, ending_at
  - poll_option: options per poll, ordered by position
  - vote: one row per (poll_id, voter_id)

# Relationships

	poll 1──* poll_option
	poll_option 1──* vote

The primary key on vote(poll_id, voter_id) is what makes a second vote by
the same voter on the same poll impossible, whichever option it targets.
Removing an option removes its votes.
*/
package db
