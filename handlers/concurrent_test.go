// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/testutil"
)

// TestConcurrentVotes_SameUser fires many votes from one user at once.
// Exactly one may be recorded.
func TestConcurrentVotes_SameUser(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateTestUser(t, env.db, "owner@example.com")
	voter := testutil.CreateTestUser(t, env.db, "voter@example.com")
	poll := testutil.CreateTestPoll(t, env.db, owner.ID, time.Now().Add(time.Hour), "A", "B", "C")

	const attempts = 20
	var wg sync.WaitGroup
	var accepted, alreadyVoted, other atomic.Int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			opt := poll.Options[i%len(poll.Options)]
			w := httptest.NewRecorder()
			env.voting.Vote(w, voteRequest(poll.ID, opt.ID, voter))

			switch w.Code {
			case http.StatusOK:
				accepted.Add(1)
			case http.StatusConflict:
				alreadyVoted.Add(1)
			default:
				other.Add(1)
				t.Logf("unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", accepted.Load())
	}
	if alreadyVoted.Load() != attempts-1 {
		t.Errorf("Expected %d already-voted rejections, got %d", attempts-1, alreadyVoted.Load())
	}
	if other.Load() != 0 {
		t.Errorf("Expected no other outcomes, got %d", other.Load())
	}

	var count int
	if err := env.db.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = ?", poll.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stored vote, got %d", count)
	}
}

// TestConcurrentVotes_DistinctUsers checks that no vote is lost under load.
func TestConcurrentVotes_DistinctUsers(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateTestUser(t, env.db, "owner@example.com")
	poll := testutil.CreateTestPoll(t, env.db, owner.ID, time.Now().Add(time.Hour), "A", "B")

	const voters = 25
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			u := &models.User{ID: fmt.Sprintf("voter-%d", i)}
			w := httptest.NewRecorder()
			env.voting.Vote(w, voteRequest(poll.ID, poll.Options[i%2].ID, u))
			if w.Code != http.StatusOK {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("Expected all votes accepted, %d failed", failures.Load())
	}

	w := httptest.NewRecorder()
	env.results.GetResults(w, resultsRequest(poll.ID))
	testutil.AssertStatus(t, w, http.StatusOK)

	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally.TotalVotes != voters {
		t.Errorf("Expected %d votes in tally, got %d", voters, tally.TotalVotes)
	}
	if tally.Options[0].Count != 13 || tally.Options[1].Count != 12 {
		t.Errorf("Expected 13/12 split, got %d/%d", tally.Options[0].Count, tally.Options[1].Count)
	}
}

// TestConcurrentEditAndVote removes an option while users vote for it.
// Each vote lands either before the edit, and is dropped with the option,
// or after it and is refused.
func TestConcurrentEditAndVote(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateTestUser(t, env.db, "owner@example.com")
	poll := testutil.CreateTestPoll(t, env.db, owner.ID, time.Now().Add(time.Hour), "Keep", "Drop")
	keep, drop := poll.Options[0], poll.Options[1]

	const voters = 10
	var wg sync.WaitGroup
	var unexpected atomic.Int32

	wg.Add(1)
	go func() {
		defer wg.Done()
		body := map[string]interface{}{
			"options": []map[string]string{
				{"id": keep.ID, "name": keep.Name},
				{"name": "New"},
			},
		}
		w := httptest.NewRecorder()
		env.polls.EditPoll(w, editRequest(poll.ID, body, owner))
		if w.Code != http.StatusOK {
			unexpected.Add(1)
			t.Logf("edit failed with %d: %s", w.Code, w.Body.String())
		}
	}()

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &models.User{ID: fmt.Sprintf("voter-%d", i)}
			w := httptest.NewRecorder()
			env.voting.Vote(w, voteRequest(poll.ID, drop.ID, u))
			if w.Code != http.StatusOK && w.Code != http.StatusNotFound {
				unexpected.Add(1)
				t.Logf("vote got %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if unexpected.Load() != 0 {
		t.Fatalf("Expected only accepted or not-found votes, %d unexpected outcomes", unexpected.Load())
	}

	var orphans int
	if err := env.db.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = ? AND option_id = ?", poll.ID, drop.ID).Scan(&orphans); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if orphans != 0 {
		t.Errorf("Expected no votes on the removed option, got %d", orphans)
	}
}
