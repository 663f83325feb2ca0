// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the veo API.

# Route Registration

NewRouter builds the store, voting engine, tally service and token issuer
once and wires them into a configured http.ServeMux:

	mux, err := router.NewRouter(conn, cfg)

# Endpoints

Health:

	GET /health

Accounts (login and register are rate limited per client IP):

	POST /api/v1/auth/register      - Create account, returns token
	POST /api/v1/auth/login         - Returns token and sets the jwt cookie
	POST /api/v1/auth/verify-token  - Bare boolean
	POST /api/v1/auth/logout        - Clears the jwt cookie

Polls (bearer token required):

	GET  /api/v1/polls                          - Caller's polls
	POST /api/v1/polls                          - Create poll
	GET  /api/v1/polls/{pollId}                 - Poll with options and votes
	PUT  /api/v1/polls/edit/{pollId}            - Edit (owner only)
	POST /api/v1/polls/{pollId}/vote/{optionId} - Cast the caller's vote
	GET  /api/v1/polls/{pollId}/results         - Tally
*/
package router
