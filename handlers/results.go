// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/openelect/openelect/cliparse"
	"github.com/openelect/openelect/middleware"
	"github.com/openelect/openelect/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(dbConn *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: dbConn, cfg: cfg}
}

// GetResults handles GET /results
// Standings include only eligible candidates (approved and verified),
// ordered by vote count descending with candidate_id as the tie-break.
// Percentages are computed against the total ballot count.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	var totalVotes int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&totalVotes); err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT c.candidate_id, c.name, COALESCE(c.description, ''), COUNT(v.id) AS votes
		FROM candidate c
		LEFT JOIN vote v ON v.candidate_id = c.id
		WHERE c.status = $1 AND c.email_verified = TRUE
		GROUP BY c.candidate_id, c.name, c.description
		ORDER BY votes DESC, c.candidate_id ASC
	`, models.StatusApproved)
	if err != nil {
		slog.Error("failed to query standings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	standings := []models.CandidateTally{}
	for rows.Next() {
		var t models.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.Name, &t.Description, &t.Votes); err != nil {
			slog.Error("failed to scan standing", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if totalVotes > 0 {
			t.Percentage = float64(t.Votes) / float64(totalVotes) * 100
		}
		t.Rank = len(standings) + 1
		standings = append(standings, t)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read standings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		TotalVotes: totalVotes,
		Standings:  standings,
	})
}
