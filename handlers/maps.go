// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/dbarwick10/VoterTurnout/boundary"
	"github.com/dbarwick10/VoterTurnout/middleware"
	"github.com/dbarwick10/VoterTurnout/models"
	"github.com/dbarwick10/VoterTurnout/render"
	"github.com/dbarwick10/VoterTurnout/selection"
)

type MapHandler struct {
	scene *render.Scene

	boundariesOnce sync.Once
	boundariesJSON []byte
	boundariesErr  error
}

func NewMapHandler(scene *render.Scene) *MapHandler {
	return &MapHandler{scene: scene}
}

// GetProfile handles GET /profile
// Returns the active profile and the values the period and category
// selectors offer
func (h *MapHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	prof := h.scene.Profile()
	idx := h.scene.Index()
	current, previous := h.scene.DefaultPeriods()

	categories := idx.Categories()
	if !idx.HasCategories() {
		categories = []string{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileResponse{
		Name:           prof.Name,
		Description:    prof.Description,
		Scheme:         prof.Scheme,
		TerritoryLabel: prof.TerritoryLabel,
		CurrentPeriod:  current,
		PreviousPeriod: previous,
		Periods:        idx.Periods(),
		Categories:     categories,
		RegionCount:    len(h.scene.Boundaries()),
		RecordCount:    idx.Len(),
		RecordsLabel:   humanize.Comma(int64(idx.Len())) + " records",
	})
}

// GetLegend handles GET /legend
func (h *MapHandler) GetLegend(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.LegendResponse{
		Scheme:  h.scene.Profile().Scheme,
		Entries: h.scene.Legend(),
	})
}

// GetBoundaries handles GET /boundaries
// Returns the boundary GeoJSON with region_id and label on every feature
func (h *MapHandler) GetBoundaries(w http.ResponseWriter, r *http.Request) {
	h.boundariesOnce.Do(func() {
		h.boundariesJSON, h.boundariesErr = json.Marshal(boundary.FeatureCollection(h.scene.Boundaries()))
	})
	if h.boundariesErr != nil {
		slog.Error("failed to encode boundaries", "error", h.boundariesErr)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode boundaries")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(h.boundariesJSON)
}

// CompareRegion handles GET /regions/{id}/compare
// Stateless comparison of one region between two periods. Query parameters
// current, previous, current_category and previous_category default to the
// profile's periods and the General category.
func (h *MapHandler) CompareRegion(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.PathValue("id"))
	if region == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "region id is required")
		return
	}
	if err := h.scene.CheckRegion(region); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	current, previous := h.scene.DefaultPeriods()
	snap := selection.Snapshot{
		Region: region,
		Current: selection.SlotState{
			Period:   queryOr(q.Get("current"), current),
			Category: queryOr(q.Get("current_category"), selection.DefaultCategory),
		},
		Previous: selection.SlotState{
			Period:   queryOr(q.Get("previous"), previous),
			Category: queryOr(q.Get("previous_category"), selection.DefaultCategory),
		},
	}

	for _, slot := range selection.Slots {
		s := snap.Slot(slot)
		if err := h.scene.CheckPeriod(s.Period); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.scene.CheckCategory(s.Category); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, h.scene.Panel(snap))
}

func queryOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

// selectionStatus maps selection and lookup errors to HTTP status codes
func selectionStatus(err error) int {
	switch {
	case errors.Is(err, render.ErrUnknownRegion):
		return http.StatusNotFound
	case errors.Is(err, render.ErrUnknownPeriod),
		errors.Is(err, render.ErrUnknownCategory),
		errors.Is(err, selection.ErrInvalidSlot),
		errors.Is(err, selection.ErrEmptyCategory),
		errors.Is(err, selection.ErrEmptyPeriod):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
