// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compare

import (
	"math"

	"github.com/dbarwick10/VoterTurnout/turnout"
)

// Field names a numeric field of a turnout record
type Field string

const (
	RegisteredVoters Field = "registered_voters"
	VotersVoting     Field = "voters_voting"
	Turnout          Field = "turnout"
	ElectionDayVote  Field = "election_day_vote"
	Absentee         Field = "absentee"
	AbsenteePct      Field = "absentee_pct"
)

// Kind decides how a field's deltas are computed and shown
type Kind int

const (
	Count Kind = iota
	Percentage
)

// FieldSpec describes one compared field
type FieldSpec struct {
	Field Field
	Label string
	Kind  Kind
	Get   func(turnout.Record) turnout.Quantity
}

// Fields lists the compared fields in panel order
var Fields = []FieldSpec{
	{RegisteredVoters, "Registered Voters", Count, func(r turnout.Record) turnout.Quantity { return r.RegisteredVoters }},
	{VotersVoting, "Voters Voting", Count, func(r turnout.Record) turnout.Quantity { return r.VotersVoting }},
	{Turnout, "Turnout (%)", Percentage, func(r turnout.Record) turnout.Quantity { return r.Turnout }},
	{ElectionDayVote, "Election Day Vote", Count, func(r turnout.Record) turnout.Quantity { return r.ElectionDayVote }},
	{Absentee, "Absentee", Count, func(r turnout.Record) turnout.Quantity { return r.Absentee }},
	{AbsenteePct, "Absentee (%)", Percentage, func(r turnout.Record) turnout.Quantity { return r.AbsenteePct }},
}

// Delta is the change of one field between two periods
type Delta struct {
	Field    Field  `json:"field"`
	Label    string `json:"label"`
	Current  string `json:"current"`
	Previous string `json:"previous"`

	// Absolute is current - previous; percentage points for percent fields
	Absolute        float64 `json:"absolute"`
	AbsoluteValid   bool    `json:"absolute_valid"`
	AbsoluteDisplay string  `json:"absolute_display"`

	// Percent is ((current / previous) - 1) * 100 rounded to 2 places
	Percent        float64 `json:"percent"`
	PercentValid   bool    `json:"percent_valid"`
	PercentDisplay string  `json:"percent_display"`
}

// Result holds every field's delta for one region
type Result struct {
	RegionID         string  `json:"region_id"`
	CurrentPeriod    string  `json:"current_period"`
	CurrentCategory  string  `json:"current_category,omitempty"`
	PreviousPeriod   string  `json:"previous_period"`
	PreviousCategory string  `json:"previous_category,omitempty"`
	Deltas           []Delta `json:"deltas"`
}

// Get returns the delta of one field
func (r Result) Get(f Field) (Delta, bool) {
	for _, d := range r.Deltas {
		if d.Field == f {
			return d, true
		}
	}
	return Delta{}, false
}

// Compare computes deltas between two records of the same region.
// A nil record is NotFound, and the comparison is then unavailable.
func Compare(current, previous *turnout.Record) (Result, bool) {
	if current == nil || previous == nil {
		return Result{}, false
	}

	res := Result{
		RegionID:         current.RegionID,
		CurrentPeriod:    current.Period,
		CurrentCategory:  current.Category,
		PreviousPeriod:   previous.Period,
		PreviousCategory: previous.Category,
		Deltas:           make([]Delta, 0, len(Fields)),
	}
	for _, spec := range Fields {
		res.Deltas = append(res.Deltas, fieldDelta(spec, spec.Get(*current), spec.Get(*previous)))
	}
	return res, true
}

func fieldDelta(spec FieldSpec, cur, prev turnout.Quantity) Delta {
	d := Delta{
		Field:           spec.Field,
		Label:           spec.Label,
		Current:         cur.String(),
		Previous:        prev.String(),
		AbsoluteDisplay: turnout.NotAvailable,
		PercentDisplay:  turnout.NotAvailable,
	}
	if !cur.Valid || !prev.Valid {
		return d
	}

	c, p := cur.Value, prev.Value
	if spec.Kind == Percentage {
		c, p = cur.Percent(), prev.Percent()
	}

	d.Absolute = c - p
	d.AbsoluteValid = true
	if spec.Kind == Percentage {
		d.Absolute = Round2(d.Absolute)
		d.AbsoluteDisplay = FormatPoints(d.Absolute)
	} else {
		d.AbsoluteDisplay = FormatCountDelta(d.Absolute)
	}

	if pct, ok := PercentChange(c, p); ok {
		d.Percent = pct
		d.PercentValid = true
		d.PercentDisplay = FormatPercentChange(pct)
	}
	return d
}

// PercentChange returns ((current / previous) - 1) * 100 rounded to two
// decimals. It reports false when previous is zero.
func PercentChange(current, previous float64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	v := Round2((current/previous - 1) * 100)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Round2 rounds to two decimals. Percentage-point deltas are rounded
// before display and before classification so both agree.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		// drop negative zero
		return 0
	}
	return r
}
