// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dbarwick10/VoterTurnout/boundary"
	"github.com/dbarwick10/VoterTurnout/cliparse"
	"github.com/dbarwick10/VoterTurnout/db"
	"github.com/dbarwick10/VoterTurnout/profile"
	"github.com/dbarwick10/VoterTurnout/render"
	"github.com/dbarwick10/VoterTurnout/turnout"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// IndianaJSON is a small Indiana-shaped dataset. Marion has 2022 General,
// 2022 Primary and 2018 General rows; Lake has none; Indiana is the
// statewide row.
const IndianaJSON = `[
  {"Year": 2022, "County": "Marion", "Election Type": "General",
   "Registered Voters": "100,000", "Voters Voting": "60,000", "Turnout (%)": "65.0%",
   "Election Day Vote": "40,000", "Absentee": "20,000", "Absentee (%)": "33.3%"},
  {"Year": 2022, "County": "Marion", "Election Type": "Primary",
   "Registered Voters": "100,000", "Voters Voting": "20,000", "Turnout (%)": "20.0%",
   "Election Day Vote": "15,000", "Absentee": "5,000", "Absentee (%)": "25.0%"},
  {"Year": 2018, "County": "Marion", "Election Type": "General",
   "Registered Voters": "90,000", "Voters Voting": "50,000", "Turnout (%)": "62.0%",
   "Election Day Vote": "35,000", "Absentee": "15,000", "Absentee (%)": "30.0%"},
  {"Year": 2022, "County": "Indiana", "Election Type": "General",
   "Registered Voters": "4,700,000", "Voters Voting": "1,900,000", "Turnout (%)": "40.4%",
   "Election Day Vote": "1,200,000", "Absentee": "700,000", "Absentee (%)": "36.8%"}
]`

// IndianaGeoJSON holds boundaries for Marion and Lake
const IndianaGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Marion"},
     "geometry": {"type": "Polygon", "coordinates": [[[-86.3,39.6],[-85.9,39.6],[-85.9,39.9],[-86.3,39.9],[-86.3,39.6]]]}},
    {"type": "Feature", "properties": {"name": "Lake"},
     "geometry": {"type": "Polygon", "coordinates": [[[-87.5,41.2],[-87.2,41.2],[-87.2,41.6],[-87.5,41.6],[-87.5,41.2]]]}}
  ]
}`

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		Profile:      "indiana",
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		DataSource:   cliparse.SourceFile,
	}
}

// IndianaRecords decodes IndianaJSON
func IndianaRecords(t *testing.T) []turnout.RawRecord {
	t.Helper()

	raws, err := turnout.DecodeRecords([]byte(IndianaJSON))
	if err != nil {
		t.Fatalf("Failed to decode fixture records: %v", err)
	}
	return raws
}

// IndianaScene builds a scene from the Indiana fixtures and the built-in
// indiana profile
func IndianaScene(t *testing.T) *render.Scene {
	t.Helper()
	return BuildScene(t, "indiana", IndianaRecords(t), IndianaGeoJSON)
}

// BuildScene builds a scene from raw records and boundary GeoJSON
func BuildScene(t *testing.T, profileName string, raws []turnout.RawRecord, geoJSON string) *render.Scene {
	t.Helper()

	prof, err := profile.Load(profileName)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	idx, err := turnout.Build(raws, prof.Shape)
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	bs, err := boundary.Parse([]byte(geoJSON), prof.BoundaryKey)
	if err != nil {
		t.Fatalf("Failed to parse boundaries: %v", err)
	}
	scene, err := render.NewScene(idx, bs, prof)
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	return scene
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
