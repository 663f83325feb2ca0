// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting is the vote state machine.

A poll is open while the server clock is strictly before its ending and
closed from that instant on. There is no other state and no stored flag:

	voting.State(poll, time.Now()) // "open" or "closed"

# Casting Votes

	engine, err := voting.NewEngine(store, nil)
	err = engine.Vote(ctx, pollID, optionID, voterID)

Vote runs inside store.InPollTx, so for a given poll the checks and the
insert are serialized. Concurrent identical votes produce exactly one
success; the rest fail with models.ErrAlreadyVoted. A vote is never
changed or retracted.

# Metrics

Two OpenTelemetry counters are recorded on the provider given to NewEngine:

  - veo.votes.accepted
  - veo.votes.rejected, with a "reason" attribute (models.Code of the error)
*/
package voting
