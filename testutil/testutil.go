// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/db"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/store"
)

// TestPassword is the password of every user made by CreateTestUser.
const TestPassword = "password123"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "veo_test.db")
	conn, err := db.Open(db.SQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "veo_test.db",
		DatabaseType:  string(db.SQLite),
		JWTSecret:     "test-jwt-secret",
		TokenTTL:      time.Hour,
		Location:      time.UTC,
		AuthRateLimit: 1000,
		LogLevel:      "error",
		LogFormat:     "text",
	}
}

// NewStore wraps conn in a SQLite store.
func NewStore(conn *sql.DB) *store.Store {
	return store.New(conn, db.SQLite)
}

// CreateTestUser registers a user with TestPassword.
func CreateTestUser(t *testing.T, conn *sql.DB, email string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	u, err := NewStore(conn).CreateUser(context.Background(), email, hash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestToken issues a bearer token for u signed with cfg's secret.
func CreateTestToken(t *testing.T, cfg cliparse.Config, u *models.User) string {
	t.Helper()

	token, _, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL).Issue(u.ID, u.Email)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// AuthHeader returns request headers carrying token.
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestPoll stores a poll owned by ownerID with one option per name.
// The ending is not checked against the clock, so closed polls can be
// seeded with a past ending.
func CreateTestPoll(t *testing.T, conn *sql.DB, ownerID string, endingAt time.Time, names ...string) *models.Poll {
	t.Helper()

	p := &models.Poll{
		Title:    "Test Poll",
		OwnerID:  ownerID,
		EndingAt: endingAt,
	}
	for _, name := range names {
		p.Options = append(p.Options, models.Option{Name: name})
	}

	if _, err := NewStore(conn).CreatePoll(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return p
}

// AddTestVote records a vote directly, bypassing the open check.
func AddTestVote(t *testing.T, conn *sql.DB, pollID, optionID, voterID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (poll_id, voter_id, option_id, cast_at)
		VALUES (?, ?, ?, ?)
	`, pollID, voterID, optionID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
