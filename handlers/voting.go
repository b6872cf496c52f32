// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/openelect/openelect/auth"
	"github.com/openelect/openelect/cliparse"
	"github.com/openelect/openelect/db"
	"github.com/openelect/openelect/middleware"
	"github.com/openelect/openelect/models"
	"github.com/openelect/openelect/otp"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	otp *otp.Service
}

func NewVotingHandler(dbConn *sql.DB, cfg cliparse.Config, otpSvc *otp.Service) *VotingHandler {
	return &VotingHandler{db: dbConn, cfg: cfg, otp: otpSvc}
}

// RequestCode handles POST /votes/request-code
// A code is only issued after re-checking that the caller has not voted
// and that the chosen candidate is still eligible, so a stale ballot
// screen fails here rather than at cast time.
func (h *VotingHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	session, ok := voterSession(w, r, h.cfg.SessionSecret)
	if !ok {
		return
	}

	var req models.RequestVoteCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	if _, ok := h.eligibleCandidate(w, req.CandidateID); !ok {
		return
	}
	if !h.checkNotVoted(w, session.VoterID) {
		return
	}

	expiresAt, err := h.otp.Issue(session.Email)
	if err != nil {
		writeOTPIssueError(w, err)
		return
	}

	slog.Info("vote code issued", "voter_id", session.VoterID, "candidate_id", req.CandidateID)

	middleware.JSONResponse(w, http.StatusOK, models.RequestVoteCodeResponse{
		Message:   "A verification code has been sent to your email",
		ExpiresAt: expiresAt,
	})
}

// CastVote handles POST /votes
// Order matters: the code is burned first, then voter and candidate are
// re-checked, then the ballot lands in a single transaction that flips
// has_voted and inserts the vote row together.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	session, ok := voterSession(w, r, h.cfg.SessionSecret)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}
	if req.Code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.otp.Verify(session.Email, req.Code); err != nil {
		writeOTPVerifyError(w, err)
		return
	}

	candidateRowID, ok := h.eligibleCandidate(w, req.CandidateID)
	if !ok {
		return
	}
	if !h.checkNotVoted(w, session.VoterID) {
		return
	}

	// Reuse the admin salt for IP hashing; a distinct salt buys nothing here.
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminTokenSalt)

	voteID, err := db.RecordVote(h.db, session.VoterID, candidateRowID, ipHash)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyVoted):
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		case errors.Is(err, db.ErrVoterNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		default:
			slog.Error("failed to record vote", "error", err, "voter_id", session.VoterID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		}
		return
	}

	slog.Info("vote cast", "voter_id", session.VoterID, "candidate_id", req.CandidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  voteID,
		Message: "Your vote has been recorded. Thank you for voting!",
	})
}

// eligibleCandidate resolves a public candidate id to its row id,
// writing the error response itself when the candidate is missing or
// not eligible to receive votes.
func (h *VotingHandler) eligibleCandidate(w http.ResponseWriter, candidateID string) (string, bool) {
	var rowID, status string
	var verified bool
	err := h.db.QueryRow(`
		SELECT id, status, email_verified FROM candidate WHERE candidate_id = $1
	`, candidateID).Scan(&rowID, &status, &verified)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return "", false
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", false
	}
	if status != models.StatusApproved || !verified {
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate is not eligible to receive votes")
		return "", false
	}
	return rowID, true
}

// checkNotVoted re-reads has_voted, writing a 409 if the voter has
// already cast a ballot. The transaction in db.RecordVote is the real
// guard; this check just fails fast with a friendly message.
func (h *VotingHandler) checkNotVoted(w http.ResponseWriter, voterID string) bool {
	var hasVoted bool
	err := h.db.QueryRow(`
		SELECT has_voted FROM voter WHERE voter_id = $1
	`, voterID).Scan(&hasVoted)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return false
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if hasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		return false
	}
	return true
}

func throttleMessage(t *otp.ThrottleError) string {
	return fmt.Sprintf("A code was sent recently. You can request another %s.",
		humanize.RelTime(t.RetryAt, time.Now(), "", "from now"))
}
