// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VoterLoginRequest: name, voter_id, email
  - CandidateApplyRequest: name, candidate_id, email, description
  - RequestVerificationRequest / VerifyEmailRequest: candidate email verification
  - RequestVoteCodeRequest / CastVoteRequest: the two vote-casting steps
  - AdminLoginRequest / CandidateDecisionRequest: admin operations

# Response Types

Types for JSON responses:

  - VoterLoginResponse: session_token, voter, new_voter
  - CandidateApplyResponse: candidate_id, message
  - RequestVoteCodeResponse: message, expires_at
  - CastVoteResponse: vote_id, message
  - AdminLoginResponse: admin_token
  - ResultsResponse: total_votes, standings
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Voter: registry entry with the monotonic has_voted flag
  - Candidate: roster entry with approval status and email_verified
  - Vote: immutable ballot record (voter, candidate, timestamp)
  - CandidateTally: one results row (rank, votes, percentage)
  - VoterRollEntry: admin view of a voter joined with their vote

# Constants

Approval status values:

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

Admin decisions:

	DecisionApprove = "approve"
	DecisionReject  = "reject"
*/
package models
