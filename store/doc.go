// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the durable poll store.

	s := store.New(conn, dialect)
	id, err := s.CreatePoll(ctx, &models.Poll{...})
	poll, err := s.GetPoll(ctx, id)
	poll, err = s.UpdatePoll(ctx, id, patch, requesterID)

# Per-poll critical section

InPollTx serializes writers of one poll. It takes an in-process lock keyed
by poll id, opens a transaction, and on Postgres locks the poll row with
SELECT ... FOR UPDATE so other processes queue behind it as well:

	err := s.InPollTx(ctx, pollID, func(t *store.PollTx) error {
		if _, voted, err := t.VoterChoice(ctx, voterID); err != nil || voted {
			...
		}
		return t.InsertVote(ctx, optionID, voterID)
	})

The primary key on vote(poll_id, voter_id) backs this up: a duplicate
insert fails with ErrAlreadyVoted even if the lock were bypassed.

# Reads

GetPoll reads the poll, its options and its votes inside one transaction
(REPEATABLE READ on Postgres), so counts derived from it are consistent.

# Errors

Driver errors are mapped onto the models error taxonomy:

  - missing rows: ErrNotFound
  - serialization failures, deadlocks, SQLITE_BUSY, constraint races: ErrConflict
  - anything else: ErrStorageUnavailable

Context cancellation is returned as is; the transaction is rolled back.
*/
package store
