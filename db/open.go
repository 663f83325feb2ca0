// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour and driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a DATABASE_TYPE value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database type %q (want sqlite or postgres)", s)
}

// Placeholder returns the bind variable style for squirrel builders.
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// Builder returns a squirrel statement builder for the dialect.
func (d Dialect) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder())
}

// sqlitePragmas are appended to SQLite DSNs that don't set their own.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open connects to the database and verifies the connection.
// SQLite connections are limited to one so writers never see SQLITE_BUSY
// from lock upgrades.
func Open(dialect Dialect, url string) (*sql.DB, error) {
	driver := string(dialect)
	dsn := url
	if dialect == SQLite && !strings.Contains(dsn, "_pragma=") {
		if strings.Contains(dsn, "?") {
			dsn += "&" + sqlitePragmas
		} else {
			dsn += "?" + sqlitePragmas
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	return conn, nil
}
