// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dbarwick10/VoterTurnout/middleware"
	"github.com/dbarwick10/VoterTurnout/models"
	"github.com/dbarwick10/VoterTurnout/render"
	"github.com/dbarwick10/VoterTurnout/selection"
	"github.com/dbarwick10/VoterTurnout/session"
)

type SessionHandler struct {
	sessions *session.Registry
}

func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession handles POST /sessions
// Starts a selection at the defaults and returns its first frame
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, frame, err := h.sessions.Create()
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		SessionID: s.ID,
		CreatedAt: s.CreatedAt,
		Frame:     frame,
	})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.respond(w, s, s.Frame())
}

// SelectRegion handles POST /sessions/{id}/region
// Selecting the selected region again clears the selection
func (h *SessionHandler) SelectRegion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SelectRegionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, s, func(c *render.Coordinator) error {
		return c.SelectRegion(req.Region)
	})
}

// SelectCategory handles POST /sessions/{id}/category
func (h *SessionHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SelectCategoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	slot, err := selection.ParseSlot(req.Slot)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.apply(w, s, func(c *render.Coordinator) error {
		return c.SelectCategory(slot, req.Category)
	})
}

// SelectPeriod handles POST /sessions/{id}/period
func (h *SessionHandler) SelectPeriod(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SelectPeriodRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	slot, err := selection.ParseSlot(req.Slot)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.apply(w, s, func(c *render.Coordinator) error {
		return c.SelectPeriod(slot, req.Period)
	})
}

// DeleteSession handles DELETE /sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return nil, false
	}

	s, err := h.sessions.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to get session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Session error")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) apply(w http.ResponseWriter, s *session.Session, fn func(c *render.Coordinator) error) {
	frame, err := s.Do(fn)
	if err != nil {
		status := selectionStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to redraw", "session_id", s.ID, "error", err)
			middleware.ErrorResponse(w, status, "Failed to redraw")
			return
		}
		middleware.ErrorResponse(w, status, err.Error())
		return
	}
	h.respond(w, s, frame)
}

func (h *SessionHandler) respond(w http.ResponseWriter, s *session.Session, frame render.Frame) {
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		SessionID: s.ID,
		CreatedAt: s.CreatedAt,
		Frame:     frame,
	})
}
