// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/dbarwick10/VoterTurnout/handlers"
	"github.com/dbarwick10/VoterTurnout/middleware"
	"github.com/dbarwick10/VoterTurnout/session"
)

func NewRouter(sessions *session.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	mapHandler := handlers.NewMapHandler(sessions.Scene())
	sessionHandler := handlers.NewSessionHandler(sessions)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Map data (read-only)
	mux.HandleFunc("GET /profile", middleware.WithLogging(mapHandler.GetProfile))
	mux.HandleFunc("GET /legend", middleware.WithLogging(mapHandler.GetLegend))
	mux.HandleFunc("GET /boundaries", middleware.WithLogging(mapHandler.GetBoundaries))
	mux.HandleFunc("GET /regions/{id}/compare", middleware.WithLogging(mapHandler.CompareRegion))

	// Viewer sessions
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /sessions/{id}/region", middleware.WithLogging(sessionHandler.SelectRegion))
	mux.HandleFunc("POST /sessions/{id}/category", middleware.WithLogging(sessionHandler.SelectCategory))
	mux.HandleFunc("POST /sessions/{id}/period", middleware.WithLogging(sessionHandler.SelectPeriod))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.DeleteSession))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voter turnout API v1"))
	})

	return mux
}
