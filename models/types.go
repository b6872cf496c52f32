// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Candidate approval status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Admin decision actions
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Request types

type VoterLoginRequest struct {
	Name    string `json:"name"`
	VoterID string `json:"voter_id"`
	Email   string `json:"email"`
}

type CandidateApplyRequest struct {
	Name        string `json:"name"`
	CandidateID string `json:"candidate_id"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

type VerifyEmailRequest struct {
	Email       string `json:"email"`
	CandidateID string `json:"candidate_id"`
	Code        string `json:"code"`
}

type RequestVerificationRequest struct {
	Email       string `json:"email"`
	CandidateID string `json:"candidate_id"`
}

type RequestVoteCodeRequest struct {
	CandidateID string `json:"candidate_id"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
	Code        string `json:"code"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CandidateDecisionRequest struct {
	Action string `json:"action"` // "approve" or "reject"
}

// Response types

type VoterLoginResponse struct {
	SessionToken string `json:"session_token"`
	Voter        Voter  `json:"voter"`
	NewVoter     bool   `json:"new_voter"`
}

type CandidateApplyResponse struct {
	CandidateID string `json:"candidate_id"`
	Message     string `json:"message"`
}

type RequestVoteCodeResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CastVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type AdminLoginResponse struct {
	AdminToken string `json:"admin_token"`
}

type ResultsResponse struct {
	TotalVotes int              `json:"total_votes"`
	Standings  []CandidateTally `json:"standings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Voter struct {
	VoterID   string    `json:"voter_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	HasVoted  bool      `json:"has_voted"`
	CreatedAt time.Time `json:"created_at"`
}

type Candidate struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidate_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
}

// CandidateTally is one row of the results projection. Rank is 1-indexed;
// ties on vote count are broken by ascending public candidate id.
type CandidateTally struct {
	Rank        int     `json:"rank"`
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Votes       int     `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// VoterRollEntry is a voter plus who they voted for, for the admin view.
type VoterRollEntry struct {
	Voter
	VotedFor *string `json:"voted_for,omitempty"`
}
