// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the veo API.

# Handler Types

Each handler is a struct over the shared domain components:

  - PollHandler: create, read, edit and list polls (store.Store)
  - VotingHandler: cast votes (voting.Engine)
  - ResultsHandler: live and final tallies (tally.Service)
  - AuthHandler: register, login, token check, logout (store.Store, auth.TokenIssuer)

All handlers of one server must share one store.Store so that writes to a
poll are serialized:

	s := store.New(conn, dialect)
	pollHandler := handlers.NewPollHandler(s, cfg)

# Polls

	POST /api/v1/polls                → CreatePoll
	GET  /api/v1/polls                → ListMyPolls
	GET  /api/v1/polls/{pollId}       → GetPoll
	PUT  /api/v1/polls/edit/{pollId}  → EditPoll (owner only)

Endings travel as [year, month, day, hour, minute] in the configured zone;
ISO-8601 strings are accepted on input.

# Voting

	POST /api/v1/polls/{pollId}/vote/{optionId} → Vote
	GET  /api/v1/polls/{pollId}/results         → GetResults

A user votes at most once per poll. Votes after the ending are refused with
409 poll_closed; repeat votes with 409 already_voted.

# Authentication

Handlers that need a caller read it with auth.IdentityFrom; the identity is
put there by middleware.Authenticator.RequireAuth.
*/
package handlers
