// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/openelect/openelect/auth"
	"github.com/openelect/openelect/cliparse"
	"github.com/openelect/openelect/db"
	"github.com/openelect/openelect/middleware"
	"github.com/openelect/openelect/models"
)

type VoterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoterHandler(dbConn *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{db: dbConn, cfg: cfg}
}

// Login handles POST /voters/login
//
// Lookup-or-create: an unknown voter id is registered on the spot with
// has_voted=false; a known one gets its name/email reconciled to the
// submitted values (last write wins) while has_voted is left untouched.
// A voter who has already voted is turned away here, before any code is
// sent.
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.VoterLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}
	if !validEmail(req.Email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "please enter a valid email address")
		return
	}

	var voter models.Voter
	newVoter := false

	err := h.db.QueryRow(`
		SELECT voter_id, name, email, has_voted, created_at
		FROM voter WHERE voter_id = $1
	`, req.VoterID).Scan(&voter.VoterID, &voter.Name, &voter.Email, &voter.HasVoted, &voter.CreatedAt)

	switch {
	case err == sql.ErrNoRows:
		// First login registers the voter. The primary key on voter_id
		// settles the race between two simultaneous first logins: the
		// loser re-reads the winner's row.
		now := time.Now()
		_, err = h.db.Exec(`
			INSERT INTO voter (voter_id, name, email, has_voted, created_at)
			VALUES ($1, $2, $3, FALSE, $4)
		`, req.VoterID, req.Name, req.Email, now)

		if err != nil && !db.IsUniqueViolation(err) {
			slog.Error("failed to insert voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
			return
		}

		if err == nil {
			newVoter = true
			voter = models.Voter{
				VoterID:   req.VoterID,
				Name:      req.Name,
				Email:     req.Email,
				HasVoted:  false,
				CreatedAt: now,
			}
			break
		}

		// Lost the creation race; fall through to the existing row
		err = h.db.QueryRow(`
			SELECT voter_id, name, email, has_voted, created_at
			FROM voter WHERE voter_id = $1
		`, req.VoterID).Scan(&voter.VoterID, &voter.Name, &voter.Email, &voter.HasVoted, &voter.CreatedAt)
		if err != nil {
			slog.Error("failed to re-read voter after conflict", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

	case err != nil:
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if voter.HasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		return
	}

	// Reconcile identity fields to the latest submitted values
	if !newVoter && (voter.Name != req.Name || voter.Email != req.Email) {
		_, err = h.db.Exec(`
			UPDATE voter SET name = $1, email = $2 WHERE voter_id = $3
		`, req.Name, req.Email, req.VoterID)
		if err != nil {
			slog.Error("failed to update voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voter details")
			return
		}
		voter.Name = req.Name
		voter.Email = req.Email
	}

	token, err := auth.NewSessionToken(auth.VoterSession{
		VoterID: voter.VoterID,
		Name:    voter.Name,
		Email:   voter.Email,
	}, h.cfg.SessionSecret)
	if err != nil {
		slog.Error("failed to sign session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	slog.Info("voter login", "voter_id", voter.VoterID, "new_voter", newVoter)

	status := http.StatusOK
	if newVoter {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, models.VoterLoginResponse{
		SessionToken: token,
		Voter:        voter,
		NewVoter:     newVoter,
	})
}

// voterSession extracts and validates the X-Voter-Session header.
// Writes the 401 itself; callers just return on !ok.
func voterSession(w http.ResponseWriter, r *http.Request, secret string) (auth.VoterSession, bool) {
	token := r.Header.Get("X-Voter-Session")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Session header required")
		return auth.VoterSession{}, false
	}

	sess, err := auth.ParseSessionToken(token, secret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session is invalid or expired, please log in again")
		return auth.VoterSession{}, false
	}
	return sess, true
}
