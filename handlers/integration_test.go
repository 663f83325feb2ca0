// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/testutil"
)

func newTestMux(env *testEnv) *http.ServeMux {
	authn := middleware.NewAuthenticator(env.issuer)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", env.auth.Register)
	mux.HandleFunc("POST /api/v1/polls", authn.RequireAuth(env.polls.CreatePoll))
	mux.HandleFunc("GET /api/v1/polls/{pollId}", authn.RequireAuth(env.polls.GetPoll))
	mux.HandleFunc("PUT /api/v1/polls/edit/{pollId}", authn.RequireAuth(env.polls.EditPoll))
	mux.HandleFunc("POST /api/v1/polls/{pollId}/vote/{optionId}", authn.RequireAuth(env.voting.Vote))
	mux.HandleFunc("GET /api/v1/polls/{pollId}/results", authn.RequireAuth(env.results.GetResults))
	return mux
}

func register(t *testing.T, mux http.Handler, email string) string {
	t.Helper()

	body := map[string]string{"email": email, "password": testutil.TestPassword}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/v1/auth/register", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.TokenResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.Token
}

// TestLunchWorkflow walks a poll through creation, voting, editing and
// results over HTTP with bearer tokens.
func TestLunchWorkflow(t *testing.T) {
	env := newTestEnv(t)
	mux := newTestMux(env)

	ownerToken := register(t, mux, "owner@example.com")
	voterToken := register(t, mux, "voter@example.com")

	// Create
	createBody := map[string]interface{}{
		"title": "Lunch",
		"options": []map[string]string{
			{"id": "a", "name": "Pizza"},
			{"id": "b", "name": "Salad"},
		},
		"ending": futureEnding(),
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/v1/polls", createBody, testutil.AuthHeader(ownerToken)))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var poll models.PollResponse
	testutil.AssertJSON(t, w, &poll)
	if poll.Options[0].ID != "a" || poll.Options[1].ID != "b" {
		t.Fatalf("Expected client option ids to be kept, got %+v", poll.Options)
	}

	// Vote, then try again on both options
	steps := []struct {
		name       string
		optionID   string
		wantStatus int
	}{
		{"first vote", "a", http.StatusOK},
		{"same option again", "a", http.StatusConflict},
		{"other option", "b", http.StatusConflict},
	}
	for _, s := range steps {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/v1/polls/"+poll.ID+"/vote/"+s.optionID, nil, testutil.AuthHeader(voterToken)))
		if w.Code != s.wantStatus {
			t.Fatalf("%s: expected %d, got %d: %s", s.name, s.wantStatus, w.Code, w.Body.String())
		}
	}

	// Voting without a token
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/v1/polls/"+poll.ID+"/vote/b", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Non-owner edit
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/api/v1/polls/edit/"+poll.ID, map[string]string{"title": "Mine now"}, testutil.AuthHeader(voterToken)))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Owner edit with six options
	w = httptest.NewRecorder()
	sixOptions := map[string]interface{}{"options": optionReqs("1", "2", "3", "4", "5", "6")}
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/api/v1/polls/edit/"+poll.ID, sixOptions, testutil.AuthHeader(ownerToken)))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Results
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/v1/polls/"+poll.ID+"/results", nil, testutil.AuthHeader(ownerToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	counts := tally.Counts()
	if counts["a"] != 1 || counts["b"] != 0 {
		t.Errorf("Expected {a:1, b:0}, got %v", counts)
	}
	if tally.Options[0].Percentage != 100 {
		t.Errorf("Expected Pizza at 100%%, got %v", tally.Options[0].Percentage)
	}

	// The poll read shows the voter under Pizza
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/v1/polls/"+poll.ID, nil, testutil.AuthHeader(voterToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var after models.PollResponse
	testutil.AssertJSON(t, w, &after)
	if after.Title != "Lunch" {
		t.Errorf("Expected rejected edits to leave the title, got %q", after.Title)
	}
	if len(after.Options[0].Votes) != 1 || len(after.Options[1].Votes) != 0 {
		t.Errorf("Expected one vote on Pizza only, got %+v", after.Options)
	}
}
