// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/openelect/openelect/auth"
	"github.com/openelect/openelect/cliparse"
	"github.com/openelect/openelect/middleware"
	"github.com/openelect/openelect/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAdminHandler(dbConn *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: dbConn, cfg: cfg}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	err := auth.CheckAdminPassword(req.Username, req.Password,
		h.cfg.AdminUsername, h.cfg.AdminPasswordHash)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	slog.Info("admin logged in", "username", req.Username)

	middleware.JSONResponse(w, http.StatusOK, models.AdminLoginResponse{
		AdminToken: auth.GenerateAdminToken(req.Username, h.cfg.AdminTokenSalt),
	})
}

// ListCandidates handles GET /admin/candidates
// Unlike the public listing, this returns every application regardless
// of status so pending ones can be reviewed.
func (h *AdminHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, candidate_id, name, email, COALESCE(description, ''), status, email_verified, created_at
		FROM candidate
		ORDER BY created_at DESC
	`)
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

// Decide handles POST /admin/candidates/{id}/decision
// A decision is only valid on a pending application; approving or
// rejecting twice returns a conflict.
func (h *AdminHandler) Decide(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	candidateID := r.PathValue("id")

	var req models.CandidateDecisionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var newStatus string
	switch req.Action {
	case models.DecisionApprove:
		newStatus = models.StatusApproved
	case models.DecisionReject:
		newStatus = models.StatusRejected
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "action must be 'approve' or 'reject'")
		return
	}

	res, err := h.db.Exec(`
		UPDATE candidate SET status = $1 WHERE candidate_id = $2 AND status = $3
	`, newStatus, candidateID, models.StatusPending)
	if err != nil {
		slog.Error("failed to update candidate status", "error", err, "candidate_id", candidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		return
	}

	if affected == 0 {
		// Distinguish an unknown candidate from one already decided.
		var status string
		err := h.db.QueryRow(`
			SELECT status FROM candidate WHERE candidate_id = $1
		`, candidateID).Scan(&status)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		if err != nil {
			slog.Error("failed to query candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate has already been "+status)
		return
	}

	slog.Info("candidate decision recorded", "candidate_id", candidateID, "status", newStatus)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"candidate_id": candidateID,
		"status":       newStatus,
	})
}

// ListVoters handles GET /admin/voters
// The roll shows each registered voter and, for those that have voted,
// the public id of the candidate they voted for.
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := h.db.Query(`
		SELECT vr.voter_id, vr.name, vr.email, vr.has_voted, vr.created_at, c.candidate_id
		FROM voter vr
		LEFT JOIN vote v ON v.voter_id = vr.voter_id
		LEFT JOIN candidate c ON c.id = v.candidate_id
		ORDER BY vr.has_voted DESC, vr.created_at
	`)
	if err != nil {
		slog.Error("failed to query voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	voters := []models.VoterRollEntry{}
	for rows.Next() {
		var entry models.VoterRollEntry
		if err := rows.Scan(&entry.VoterID, &entry.Name, &entry.Email,
			&entry.HasVoted, &entry.CreatedAt, &entry.VotedFor); err != nil {
			slog.Error("failed to scan voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voters = append(voters, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// requireAdmin validates the X-Admin-Token header, writing the error
// response itself on failure.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	token := r.Header.Get("X-Admin-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Admin-Token header required")
		return false
	}
	if err := auth.ValidateAdminToken(h.cfg.AdminUsername, token, h.cfg.AdminTokenSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return false
	}
	return true
}
