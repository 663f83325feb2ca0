// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"path/filepath"
	"testing"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"postgres", Postgres, false},
		{"PostgreSQL", Postgres, false},
		{"pg", Postgres, false},
		{"sqlite", SQLite, false},
		{"sqlite3", SQLite, false},
		{"", SQLite, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDialect(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDialect(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuilderPlaceholders(t *testing.T) {
	query, _, err := Postgres.Builder().Select("id").From("poll").Where("id = ?", "p1").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if query != "SELECT id FROM poll WHERE id = $1" {
		t.Errorf("unexpected postgres query %q", query)
	}

	query, _, err = SQLite.Builder().Select("id").From("poll").Where("id = ?", "p1").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if query != "SELECT id FROM poll WHERE id = ?" {
		t.Errorf("unexpected sqlite query %q", query)
	}
}

func TestOpenAndCreateSchema(t *testing.T) {
	conn, err := Open(SQLite, filepath.Join(t.TempDir(), "veo.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	// Safe to run twice
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn, SQLite); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	var fk int
	if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Error("Expected foreign keys to be enabled")
	}

	for _, table := range []string{"app_user", "poll", "poll_option", "vote"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
