// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/openelect/openelect/models"
	"github.com/openelect/openelect/testutil"
)

func TestRecordVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	testutil.CreateTestVoter(t, conn, cfg, "V-1", "Alice", "alice@example.com", false)
	candID := testutil.CreateTestCandidate(t, conn, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)

	voteID, err := RecordVote(conn, "V-1", candID, "ip-hash")
	if err != nil {
		t.Fatalf("RecordVote failed: %v", err)
	}
	if voteID == "" {
		t.Error("Expected non-empty vote ID")
	}

	// The flag and the ledger row must agree
	var hasVoted bool
	if err := conn.QueryRow(`SELECT has_voted FROM voter WHERE voter_id = 'V-1'`).Scan(&hasVoted); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if !hasVoted {
		t.Error("Expected has_voted to be true")
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE voter_id = 'V-1'`).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}
}

func TestRecordVoteTwice(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	testutil.CreateTestVoter(t, conn, cfg, "V-1", "Alice", "alice@example.com", false)
	candID := testutil.CreateTestCandidate(t, conn, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)

	if _, err := RecordVote(conn, "V-1", candID, ""); err != nil {
		t.Fatalf("First RecordVote failed: %v", err)
	}

	_, err := RecordVote(conn, "V-1", candID, "")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE voter_id = 'V-1'`).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}
}

func TestRecordVoteUnknownVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	candID := testutil.CreateTestCandidate(t, conn, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)

	_, err := RecordVote(conn, "V-GHOST", candID, "")
	if !errors.Is(err, ErrVoterNotFound) {
		t.Errorf("Expected ErrVoterNotFound, got %v", err)
	}
}

// TestRecordVoteConcurrent hammers RecordVote for one voter from many
// goroutines. Exactly one call may win.
func TestRecordVoteConcurrent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	testutil.CreateTestVoter(t, conn, cfg, "V-RACE", "Alice", "alice@example.com", false)
	candID := testutil.CreateTestCandidate(t, conn, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)

	numAttempts := 8
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := RecordVote(conn, "V-RACE", candID, ""); err == nil {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful RecordVote, got %d", successCount.Load())
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE voter_id = 'V-RACE'`).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}
}
