// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package turnout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Election categories
const (
	CategoryGeneral = "General"
	CategoryPrimary = "Primary"
)

// RawRecord is one decoded dataset object before normalization
type RawRecord map[string]any

// Shape names the JSON fields of a dataset variant.
// An empty Category means the dataset has no election-type axis.
type Shape struct {
	Region           string `yaml:"region" json:"region"`
	FIPS             bool   `yaml:"fips" json:"fips"`
	Period           string `yaml:"period" json:"period"`
	Category         string `yaml:"category" json:"category,omitempty"`
	RegisteredVoters string `yaml:"registered_voters" json:"registered_voters"`
	VotersVoting     string `yaml:"voters_voting" json:"voters_voting"`
	Turnout          string `yaml:"turnout" json:"turnout"`
	ElectionDayVote  string `yaml:"election_day_vote" json:"election_day_vote"`
	Absentee         string `yaml:"absentee" json:"absentee"`
	AbsenteePct      string `yaml:"absentee_pct" json:"absentee_pct"`
	State            string `yaml:"state" json:"state,omitempty"`
	County           string `yaml:"county" json:"county,omitempty"`
	DemShare         string `yaml:"dem_share" json:"dem_share,omitempty"`
	RepShare         string `yaml:"rep_share" json:"rep_share,omitempty"`
}

// Record is one normalized turnout observation
type Record struct {
	RegionID string `json:"region_id"`
	Period   string `json:"period"`
	Category string `json:"category,omitempty"`

	RegisteredVoters Quantity `json:"registered_voters"`
	VotersVoting     Quantity `json:"voters_voting"`
	Turnout          Quantity `json:"turnout"`
	ElectionDayVote  Quantity `json:"election_day_vote"`
	Absentee         Quantity `json:"absentee"`
	AbsenteePct      Quantity `json:"absentee_pct"`

	// National dataset only
	State    string   `json:"state,omitempty"`
	County   string   `json:"county,omitempty"`
	DemShare Quantity `json:"dem_share"`
	RepShare Quantity `json:"rep_share"`
}

// DecodeRecords decodes a JSON array of dataset objects.
// Numbers are kept as json.Number so FIPS codes and years survive intact.
func DecodeRecords(data []byte) ([]RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raws []RawRecord
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode turnout records: %w", err)
	}
	return raws, nil
}

// Normalize converts a raw object into a Record using the dataset shape.
// Unparseable numeric fields come back with Valid set to false.
func (s Shape) Normalize(raw RawRecord) Record {
	rec := Record{
		RegionID: NormalizeRegion(raw[s.Region], s.FIPS),
		Period:   NormalizePeriod(raw[s.Period]),

		RegisteredVoters: ParseCount(field(raw, s.RegisteredVoters)),
		VotersVoting:     ParseCount(field(raw, s.VotersVoting)),
		Turnout:          ParsePercent(field(raw, s.Turnout)),
		ElectionDayVote:  ParseCount(field(raw, s.ElectionDayVote)),
		Absentee:         ParseCount(field(raw, s.Absentee)),
		AbsenteePct:      ParsePercent(field(raw, s.AbsenteePct)),

		State:    text(field(raw, s.State)),
		County:   text(field(raw, s.County)),
		DemShare: ParsePercent(field(raw, s.DemShare)),
		RepShare: ParsePercent(field(raw, s.RepShare)),
	}
	if s.Category != "" {
		rec.Category = text(raw[s.Category])
	}
	return rec
}

// NormalizeRegion trims a region key. Case is preserved because county
// names must match the boundary file exactly. FIPS codes are zero-padded
// to five characters.
func NormalizeRegion(v any, fips bool) string {
	id := text(v)
	if fips && id != "" && len(id) < 5 && isDigits(id) {
		id = strings.Repeat("0", 5-len(id)) + id
	}
	return id
}

// NormalizePeriod renders a year given as a number or string
func NormalizePeriod(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return text(v)
}

func field(raw RawRecord, name string) any {
	if name == "" {
		return nil
	}
	return raw[name]
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
