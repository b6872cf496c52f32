// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers implements the HTTP endpoints for the election server.
//
// The package is organized around four handler types:
//
//   - VoterHandler: voter login, which registers on first contact and
//     returns a short-lived session token.
//   - CandidateHandler: candidate applications, status lookup, and
//     email verification.
//   - VotingHandler: the two-step ballot flow. A voter first requests a
//     one-time code for their chosen candidate, then casts the vote
//     with that code. Both steps re-check that the voter has not
//     already voted and that the candidate is still eligible; the final
//     write happens in db.RecordVote, whose transaction and unique
//     constraint make double voting impossible regardless of what the
//     handlers observed.
//   - AdminHandler and ResultsHandler: the review queue, the voter
//     roll, and the public standings.
//
// Handlers parse and validate input, translate domain errors into HTTP
// status codes, and leave all invariant enforcement to the db and otp
// packages.
package handlers
