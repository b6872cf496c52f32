// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyVoted  = errors.New("vote already recorded for this voter")
	ErrVoterNotFound = errors.New("voter not found")
)

// RecordVote inserts the vote and flips the voter's has_voted flag as one
// transaction. The guarded UPDATE (WHERE has_voted = FALSE) and the UNIQUE
// constraint on vote.voter_id together close the window between the
// handler's pre-commit check and the write: of any number of concurrent
// attempts for the same voter, exactly one commits.
//
// Returns the new vote id. ErrAlreadyVoted is returned both when the flag
// was already set and when the insert hits the uniqueness constraint.
func RecordVote(db *sql.DB, voterID, candidateID, ipHash string) (string, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE voter SET has_voted = TRUE
		WHERE voter_id = $1 AND has_voted = FALSE
	`, voterID)
	if err != nil {
		return "", fmt.Errorf("failed to update voter flag: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		// Either the voter does not exist or the flag is already set
		var hasVoted bool
		err := tx.QueryRow(`SELECT has_voted FROM voter WHERE voter_id = $1`, voterID).Scan(&hasVoted)
		if err == sql.ErrNoRows {
			return "", ErrVoterNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to query voter: %w", err)
		}
		return "", ErrAlreadyVoted
	}

	voteID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO vote (id, voter_id, candidate_id, cast_at, ip_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, voterID, candidateID, time.Now(), ipHash)
	if err != nil {
		if IsUniqueViolation(err) {
			return "", ErrAlreadyVoted
		}
		return "", fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit vote: %w", err)
	}

	return voteID, nil
}

// IsUniqueViolation reports whether err is a uniqueness-constraint error
// from either supported driver (lib/pq or modernc sqlite).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
