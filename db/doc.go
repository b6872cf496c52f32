// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the schema and the one storage primitive that must be
atomic.

# Schema

CreateSchema creates all tables (safe to call repeatedly):

	if err := db.CreateSchema(conn); err != nil { ... }

Tables: voter, candidate, vote, otp_challenge. Two constraints carry the
election's core invariant: voter.voter_id is the primary key, and
vote.voter_id is UNIQUE, so at most one ballot per voter can ever exist
regardless of what the application layer does.

# Atomic Vote Commit

RecordVote flips has_voted and inserts the vote in one transaction:

	voteID, err := db.RecordVote(conn, voterID, candidateRowID, ipHash)

A concurrent duplicate attempt gets ErrAlreadyVoted, never a partial
write. Handlers treat the uniqueness violation and the already-set flag
identically.
*/
package db
