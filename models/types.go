// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/dbarwick10/VoterTurnout/classify"
	"github.com/dbarwick10/VoterTurnout/render"
)

// Request types

// Empty region clears the selection; the selected region toggles it off
type SelectRegionRequest struct {
	Region string `json:"region"`
}

// Slot is "current" or "previous"
type SelectCategoryRequest struct {
	Slot     string `json:"slot"`
	Category string `json:"category"`
}

type SelectPeriodRequest struct {
	Slot   string `json:"slot"`
	Period string `json:"period"`
}

// Response types

type SessionResponse struct {
	SessionID string       `json:"session_id"`
	CreatedAt time.Time    `json:"created_at"`
	Frame     render.Frame `json:"frame"`
}

type ProfileResponse struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Scheme         classify.Scheme `json:"scheme"`
	TerritoryLabel string          `json:"territory_label"`
	CurrentPeriod  string          `json:"current_period"`
	PreviousPeriod string          `json:"previous_period"`
	Periods        []string        `json:"periods"`
	Categories     []string        `json:"categories"`
	RegionCount    int             `json:"region_count"`
	RecordCount    int             `json:"record_count"`
	RecordsLabel   string          `json:"records_label"`
}

type LegendResponse struct {
	Scheme  classify.Scheme        `json:"scheme"`
	Entries []classify.LegendEntry `json:"entries"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
