// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openelect/openelect/models"
	"github.com/openelect/openelect/testutil"
)

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	// Two eligible candidates, one pending (never listed)
	carolID := testutil.CreateTestCandidate(t, db, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)
	daveID := testutil.CreateTestCandidate(t, db, "dave2026", "Dave", "dave@example.com", models.StatusApproved, true)
	testutil.CreateTestCandidate(t, db, "pending1", "Pending", "p@example.com", models.StatusPending, false)

	// Three votes for Carol, one for Dave
	for _, voterID := range []string{"V-1", "V-2", "V-3"} {
		testutil.CreateTestVoter(t, db, cfg, voterID, "Voter", voterID+"@example.com", false)
		testutil.CastTestVote(t, db, voterID, carolID)
	}
	testutil.CreateTestVoter(t, db, cfg, "V-4", "Voter", "v4@example.com", false)
	testutil.CastTestVote(t, db, "V-4", daveID)

	req := testutil.MakeRequest("GET", "/results", nil, nil)
	w := httptest.NewRecorder()

	handler.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalVotes != 4 {
		t.Errorf("Expected total_votes 4, got %d", resp.TotalVotes)
	}
	if len(resp.Standings) != 2 {
		t.Fatalf("Expected 2 standings, got %d", len(resp.Standings))
	}

	first := resp.Standings[0]
	if first.CandidateID != "carol2026" || first.Votes != 3 || first.Rank != 1 {
		t.Errorf("Unexpected first standing: %+v", first)
	}
	if first.Percentage != 75.0 {
		t.Errorf("Expected 75%% for carol2026, got %f", first.Percentage)
	}

	second := resp.Standings[1]
	if second.CandidateID != "dave2026" || second.Votes != 1 || second.Rank != 2 {
		t.Errorf("Unexpected second standing: %+v", second)
	}
	if second.Percentage != 25.0 {
		t.Errorf("Expected 25%% for dave2026, got %f", second.Percentage)
	}
}

// TestGetResultsIneligibleExcluded verifies that votes recorded for a
// candidate who later lost eligibility drop out of the standings while
// still counting toward the ballot total.
func TestGetResultsIneligibleExcluded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	carolID := testutil.CreateTestCandidate(t, db, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)
	strayID := testutil.CreateTestCandidate(t, db, "stray2026", "Stray", "stray@example.com", models.StatusApproved, true)

	testutil.CreateTestVoter(t, db, cfg, "V-1", "Voter", "v1@example.com", false)
	testutil.CastTestVote(t, db, "V-1", carolID)
	testutil.CreateTestVoter(t, db, cfg, "V-2", "Voter", "v2@example.com", false)
	testutil.CastTestVote(t, db, "V-2", strayID)

	// Stray is rejected after receiving a vote
	if _, err := db.Exec(`UPDATE candidate SET status = 'rejected' WHERE candidate_id = 'stray2026'`); err != nil {
		t.Fatalf("Failed to reject candidate: %v", err)
	}

	req := testutil.MakeRequest("GET", "/results", nil, nil)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalVotes != 2 {
		t.Errorf("Expected total_votes 2, got %d", resp.TotalVotes)
	}
	if len(resp.Standings) != 1 {
		t.Fatalf("Expected 1 standing, got %d", len(resp.Standings))
	}
	if resp.Standings[0].CandidateID != "carol2026" {
		t.Errorf("Expected carol2026, got %s", resp.Standings[0].CandidateID)
	}
	if resp.Standings[0].Percentage != 50.0 {
		t.Errorf("Expected 50%%, got %f", resp.Standings[0].Percentage)
	}
}

// TestGetResultsTieBreak verifies that equal vote counts order by
// candidate_id so the standings are stable.
func TestGetResultsTieBreak(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	bID := testutil.CreateTestCandidate(t, db, "bbb2026", "Bee", "b@example.com", models.StatusApproved, true)
	aID := testutil.CreateTestCandidate(t, db, "aaa2026", "Ay", "a@example.com", models.StatusApproved, true)

	testutil.CreateTestVoter(t, db, cfg, "V-1", "Voter", "v1@example.com", false)
	testutil.CastTestVote(t, db, "V-1", bID)
	testutil.CreateTestVoter(t, db, cfg, "V-2", "Voter", "v2@example.com", false)
	testutil.CastTestVote(t, db, "V-2", aID)

	req := testutil.MakeRequest("GET", "/results", nil, nil)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Standings) != 2 {
		t.Fatalf("Expected 2 standings, got %d", len(resp.Standings))
	}
	if resp.Standings[0].CandidateID != "aaa2026" {
		t.Errorf("Expected aaa2026 first on tie, got %s", resp.Standings[0].CandidateID)
	}
	if resp.Standings[0].Rank != 1 || resp.Standings[1].Rank != 2 {
		t.Errorf("Unexpected ranks: %d, %d", resp.Standings[0].Rank, resp.Standings[1].Rank)
	}
}

func TestGetResultsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	testutil.CreateTestCandidate(t, db, "carol2026", "Carol", "carol@example.com", models.StatusApproved, true)

	req := testutil.MakeRequest("GET", "/results", nil, nil)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalVotes != 0 {
		t.Errorf("Expected total_votes 0, got %d", resp.TotalVotes)
	}
	if len(resp.Standings) != 1 {
		t.Fatalf("Expected 1 standing, got %d", len(resp.Standings))
	}
	if resp.Standings[0].Votes != 0 || resp.Standings[0].Percentage != 0 {
		t.Errorf("Expected zero votes and percentage, got %+v", resp.Standings[0])
	}
}
