// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, options, ending
  - EditPollRequest: title, options (full replace), ending
  - CredentialsRequest: email, password
  - VerifyTokenRequest: token

# Response Types

  - PollResponse: id, title, user, options (with voter ids), ending, open
  - PollSummaryResponse: one row of the caller's poll list
  - VoteResponse: status, message
  - TokenResponse: token, expires_at
  - ErrorResponse: error, message, code, field

# Domain Types

  - Poll: the aggregate; owns its options, which own their vote sets
  - Option: one choice plus the ids of the voters who picked it
  - PollPatch: editable fields for an update
  - User: account with a bcrypt password hash
  - Tally: per-option counts and percentages at one point in time

# Ending

Ending is the wire format of a poll's closing time:

	"ending": [2025, 6, 1, 18, 30]

It is wall clock time in the server's reference zone. Decoding also
accepts ISO-8601 strings:

	"ending": "2025-06-01T18:30:00.000Z"

# Errors

Sentinel errors form the error taxonomy shared by every layer:

	ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrValidation,
	ErrPollClosed, ErrAlreadyVoted, ErrConflict, ErrStorageUnavailable

ValidationError carries the offending field and matches ErrValidation.
*/
package models
