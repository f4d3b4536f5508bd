// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/dbarwick10/VoterTurnout/classify"
	"github.com/dbarwick10/VoterTurnout/compare"
	"github.com/dbarwick10/VoterTurnout/models"
	"github.com/dbarwick10/VoterTurnout/render"
	"github.com/dbarwick10/VoterTurnout/testutil"
)

func TestGetProfile(t *testing.T) {
	handler := NewMapHandler(testutil.IndianaScene(t))

	req := testutil.MakeRequest("GET", "/profile", nil, nil)
	w := httptest.NewRecorder()
	handler.GetProfile(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProfileResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Name != "indiana" {
		t.Errorf("Expected profile 'indiana', got '%s'", resp.Name)
	}
	if resp.CurrentPeriod != "2022" || resp.PreviousPeriod != "2018" {
		t.Errorf("Expected periods 2022/2018, got %s/%s", resp.CurrentPeriod, resp.PreviousPeriod)
	}
	if !reflect.DeepEqual(resp.Periods, []string{"2022", "2018"}) {
		t.Errorf("Expected periods newest first, got %v", resp.Periods)
	}
	if !reflect.DeepEqual(resp.Categories, []string{"General", "Primary"}) {
		t.Errorf("Unexpected categories %v", resp.Categories)
	}
	if resp.RegionCount != 2 || resp.RecordCount != 4 {
		t.Errorf("Expected 2 regions and 4 records, got %d and %d", resp.RegionCount, resp.RecordCount)
	}
	if resp.RecordsLabel != "4 records" {
		t.Errorf("Unexpected records label '%s'", resp.RecordsLabel)
	}
}

func TestGetLegend(t *testing.T) {
	handler := NewMapHandler(testutil.IndianaScene(t))

	w := httptest.NewRecorder()
	handler.GetLegend(w, testutil.MakeRequest("GET", "/legend", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LegendResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Scheme != classify.AbsoluteTurnout {
		t.Errorf("Expected absolute scheme, got %s", resp.Scheme)
	}
	if len(resp.Entries) != 8 {
		t.Fatalf("Expected 8 legend entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Token != classify.Turnout80 || resp.Entries[7].Token != classify.NoData {
		t.Errorf("Unexpected legend order %+v", resp.Entries)
	}
}

func TestGetBoundaries(t *testing.T) {
	handler := NewMapHandler(testutil.IndianaScene(t))

	w := httptest.NewRecorder()
	handler.GetBoundaries(w, testutil.MakeRequest("GET", "/boundaries", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("Expected GeoJSON content type, got '%s'", ct)
	}

	var fc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("Failed to decode GeoJSON: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("Expected 2 features, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["region_id"] != "Marion" {
		t.Errorf("Expected region_id Marion, got %v", fc.Features[0].Properties["region_id"])
	}
}

func TestCompareRegion(t *testing.T) {
	handler := NewMapHandler(testutil.IndianaScene(t))

	tests := []struct {
		name           string
		region         string
		query          string
		expectedStatus int
		checkResponse  func(t *testing.T, p *render.Panel)
	}{
		{
			name:           "default periods",
			region:         "Marion",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, p *render.Panel) {
				if p.Comparison == nil {
					t.Fatal("Expected a comparison")
				}
				d, _ := p.Comparison.Get(compare.RegisteredVoters)
				if d.AbsoluteDisplay != "+10,000" || d.PercentDisplay != "+11.11%" {
					t.Errorf("Unexpected registered voters delta %+v", d)
				}
				d, _ = p.Comparison.Get(compare.VotersVoting)
				if d.AbsoluteDisplay != "+10,000" || d.PercentDisplay != "+20.00%" {
					t.Errorf("Unexpected voters voting delta %+v", d)
				}
			},
		},
		{
			name:           "primary against general",
			region:         "Marion",
			query:          "?current_category=Primary",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, p *render.Panel) {
				if p.Comparison == nil || p.Comparison.Title != "2018 General to 2022 Primary" {
					t.Errorf("Unexpected comparison %+v", p.Comparison)
				}
			},
		},
		{
			name:           "region without data is unavailable",
			region:         "Lake",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, p *render.Panel) {
				if p.Comparison != nil {
					t.Error("Expected no comparison for Lake")
				}
				if p.Current.Found || p.Current.Fields[0].Value != "N/A" {
					t.Errorf("Expected N/A fields, got %+v", p.Current)
				}
			},
		},
		{
			name:           "unknown region",
			region:         "Atlantis",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown period",
			region:         "Marion",
			query:          "?previous=1850",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown category",
			region:         "Marion",
			query:          "?previous_category=Runoff",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/regions/"+tt.region+"/compare"+tt.query, nil, nil)
			req.SetPathValue("id", tt.region)
			w := httptest.NewRecorder()

			handler.CompareRegion(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == http.StatusOK {
				var p render.Panel
				testutil.AssertJSON(t, w, &p)
				tt.checkResponse(t, &p)
			}
		})
	}
}
