// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/store"
	"github.com/danielhkuo/veo/tally"
	"github.com/danielhkuo/veo/testutil"
	"github.com/danielhkuo/veo/voting"
)

type testEnv struct {
	db      *sql.DB
	cfg     cliparse.Config
	store   *store.Store
	issuer  *auth.TokenIssuer
	polls   *PollHandler
	voting  *VotingHandler
	results *ResultsHandler
	auth    *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	s := testutil.NewStore(db)

	engine, err := voting.NewEngine(s, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	return &testEnv{
		db:      db,
		cfg:     cfg,
		store:   s,
		issuer:  issuer,
		polls:   NewPollHandler(s, cfg),
		voting:  NewVotingHandler(engine, cfg),
		results: NewResultsHandler(tally.NewService(s), cfg),
		auth:    NewAuthHandler(s, issuer, cfg),
	}
}

// asUser attaches u as the authenticated caller, as RequireAuth would.
func asUser(req *http.Request, u *models.User) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: u.ID, Email: u.Email}))
}

// futureEnding is an ISO-8601 ending an hour from now.
func futureEnding() string {
	return time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
}

func optionReqs(names ...string) []map[string]string {
	out := make([]map[string]string, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]string{"name": n})
	}
	return out
}
