// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/openelect/openelect/cliparse"
	"github.com/openelect/openelect/handlers"
	"github.com/openelect/openelect/middleware"
	"github.com/openelect/openelect/otp"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, otpSvc *otp.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(db, cfg)
	candidateHandler := handlers.NewCandidateHandler(db, cfg, otpSvc)
	votingHandler := handlers.NewVotingHandler(db, cfg, otpSvc)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter registration and login
	mux.HandleFunc("POST /voters/login", middleware.WithLogging(voterHandler.Login))

	// Candidate applications (public)
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.ListEligible))
	mux.HandleFunc("POST /candidates", middleware.WithLogging(candidateHandler.Apply))
	mux.HandleFunc("GET /candidates/status", middleware.WithLogging(candidateHandler.Status))
	mux.HandleFunc("POST /candidates/verify/request", middleware.WithLogging(candidateHandler.RequestVerification))
	mux.HandleFunc("POST /candidates/verify", middleware.WithLogging(candidateHandler.VerifyEmail))

	// Vote casting (requires voter session)
	mux.HandleFunc("POST /votes/request-code", middleware.WithLogging(votingHandler.RequestCode))
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.CastVote))

	// Results (public)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))

	// Admin operations
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /admin/candidates", middleware.WithLogging(adminHandler.ListCandidates))
	mux.HandleFunc("POST /admin/candidates/{id}/decision", middleware.WithLogging(adminHandler.Decide))
	mux.HandleFunc("GET /admin/voters", middleware.WithLogging(adminHandler.ListVoters))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("openelect API v1"))
	})

	return mux
}
