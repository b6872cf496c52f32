// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openelect/openelect/auth"
	"github.com/openelect/openelect/cliparse"
	"github.com/openelect/openelect/db"
	"github.com/openelect/openelect/middleware"
	"github.com/openelect/openelect/models"
	"github.com/openelect/openelect/otp"
)

type CandidateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	otp *otp.Service
}

func NewCandidateHandler(dbConn *sql.DB, cfg cliparse.Config, otpSvc *otp.Service) *CandidateHandler {
	return &CandidateHandler{db: dbConn, cfg: cfg, otp: otpSvc}
}

// Apply handles POST /candidates
func (h *CandidateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateApplyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}
	if !validCandidateID(req.CandidateID) {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"candidate_id should only contain letters and numbers, no spaces or special characters")
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

	id, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	// Insert and let the UNIQUE constraint reject duplicate public ids
	_, err = h.db.Exec(`
		INSERT INTO candidate (id, candidate_id, name, email, description, status, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`, id, req.CandidateID, req.Name, req.Email, req.Description, models.StatusPending, time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate ID already exists. Please use a different ID.")
			return
		}
		slog.Error("failed to insert candidate", "error", err, "candidate_id", req.CandidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	// Kick off email verification. Non-fatal: the application is saved
	// even if the send fails; the status page can re-request a code.
	if _, err := h.otp.Issue(req.Email); err != nil {
		slog.Warn("failed to send verification code", "error", err, "candidate_id", req.CandidateID)
	}

	slog.Info("candidate application submitted", "candidate_id", req.CandidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.CandidateApplyResponse{
		CandidateID: req.CandidateID,
		Message:     "Application submitted for review. A verification code has been sent to your email.",
	})
}

// Status handles GET /candidates/status?email=&candidate_id=
func (h *CandidateHandler) Status(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	candidateID := r.URL.Query().Get("candidate_id")
	if email == "" || candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and candidate_id are required")
		return
	}

	cand, err := h.lookupCandidate(email, candidateID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No application found with the provided details")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, cand)
}

// RequestVerification handles POST /candidates/verify/request
func (h *CandidateHandler) RequestVerification(w http.ResponseWriter, r *http.Request) {
	var req models.RequestVerificationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and candidate_id are required")
		return
	}

	cand, err := h.lookupCandidate(req.Email, req.CandidateID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No application found with the provided details")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if cand.EmailVerified {
		middleware.ErrorResponse(w, http.StatusConflict, "Email is already verified")
		return
	}

	expiresAt, err := h.otp.Issue(req.Email)
	if err != nil {
		writeOTPIssueError(w, err)
		return
	}

	slog.Info("verification code sent", "candidate_id", req.CandidateID)

	middleware.JSONResponse(w, http.StatusOK, models.RequestVoteCodeResponse{
		Message:   "A verification code has been sent to your email",
		ExpiresAt: expiresAt,
	})
}

// VerifyEmail handles POST /candidates/verify
// Marking a candidate verified is one-way and idempotent: verifying an
// already-verified candidate succeeds without checking a code.
func (h *CandidateHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEmailRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and candidate_id are required")
		return
	}

	cand, err := h.lookupCandidate(req.Email, req.CandidateID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No application found with the provided details")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if cand.EmailVerified {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"message": "Email is already verified",
		})
		return
	}

	if err := h.otp.Verify(req.Email, req.Code); err != nil {
		writeOTPVerifyError(w, err)
		return
	}

	_, err = h.db.Exec(`
		UPDATE candidate SET email_verified = TRUE WHERE id = $1
	`, cand.ID)
	if err != nil {
		slog.Error("failed to mark candidate verified", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify email")
		return
	}

	slog.Info("candidate email verified", "candidate_id", req.CandidateID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Your email has been successfully verified",
	})
}

// ListEligible handles GET /candidates
// Returns only candidates that can receive votes: approved by an admin
// AND email verified.
func (h *CandidateHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, candidate_id, name, email, COALESCE(description, ''), status, email_verified, created_at
		FROM candidate
		WHERE status = $1 AND email_verified = TRUE
		ORDER BY created_at
	`, models.StatusApproved)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.CandidateID, &c.Name, &c.Email, &c.Description,
			&c.Status, &c.EmailVerified, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

func (h *CandidateHandler) lookupCandidate(email, candidateID string) (models.Candidate, error) {
	var c models.Candidate
	err := h.db.QueryRow(`
		SELECT id, candidate_id, name, email, COALESCE(description, ''), status, email_verified, created_at
		FROM candidate
		WHERE email = $1 AND candidate_id = $2
	`, email, candidateID).Scan(&c.ID, &c.CandidateID, &c.Name, &c.Email, &c.Description,
		&c.Status, &c.EmailVerified, &c.CreatedAt)
	return c, err
}

// writeOTPIssueError maps otp.Service.Issue failures onto responses.
func writeOTPIssueError(w http.ResponseWriter, err error) {
	var throttle *otp.ThrottleError
	if errors.As(err, &throttle) {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, throttleMessage(throttle))
		return
	}
	slog.Error("failed to issue verification code", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to send verification code")
}

// writeOTPVerifyError maps otp.Service.Verify failures onto responses,
// keeping the fix-input / wait-retry / start-over distinction.
func writeOTPVerifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, otp.ErrInvalidCode):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Incorrect verification code, please try again")
	case errors.Is(err, otp.ErrExpiredCode):
		middleware.ErrorResponse(w, http.StatusGone, "Verification code has expired, please request a new one")
	case errors.Is(err, otp.ErrTooManyAttempts):
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Too many incorrect attempts, please request a new code")
	default:
		slog.Error("failed to verify code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify code")
	}
}
