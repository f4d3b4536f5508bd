// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compare

import (
	"math"
	"testing"

	"github.com/dbarwick10/VoterTurnout/turnout"
)

func marion(period, registered, voting, turnoutPct, electionDay, absentee, absenteePct string) *turnout.Record {
	return &turnout.Record{
		RegionID:         "Marion",
		Period:           period,
		Category:         turnout.CategoryGeneral,
		RegisteredVoters: turnout.ParseCount(registered),
		VotersVoting:     turnout.ParseCount(voting),
		Turnout:          turnout.ParsePercent(turnoutPct),
		ElectionDayVote:  turnout.ParseCount(electionDay),
		Absentee:         turnout.ParseCount(absentee),
		AbsenteePct:      turnout.ParsePercent(absenteePct),
	}
}

func TestCompare_MarionScenario(t *testing.T) {
	current := marion("2022", "100,000", "60,000", "60.0%", "40,000", "20,000", "33.3%")
	previous := marion("2018", "90,000", "50,000", "55.6%", "35,000", "15,000", "30.0%")

	res, ok := Compare(current, previous)
	if !ok {
		t.Fatal("Expected comparison to be available")
	}
	if res.CurrentPeriod != "2022" || res.PreviousPeriod != "2018" {
		t.Errorf("Unexpected periods %s/%s", res.CurrentPeriod, res.PreviousPeriod)
	}

	tests := []struct {
		field          Field
		wantAbsolute   float64
		wantAbsDisplay string
		wantPercent    float64
		wantPctDisplay string
	}{
		{RegisteredVoters, 10000, "+10,000", 11.11, "+11.11%"},
		{VotersVoting, 10000, "+10,000", 20.00, "+20.00%"},
		{ElectionDayVote, 5000, "+5,000", 14.29, "+14.29%"},
		{Absentee, 5000, "+5,000", 33.33, "+33.33%"},
		{Turnout, 4.4, "+4.40 pp", 7.91, "+7.91%"},
		{AbsenteePct, 3.3, "+3.30 pp", 11, "+11.00%"},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			d, ok := res.Get(tt.field)
			if !ok {
				t.Fatalf("Field %s missing from result", tt.field)
			}
			if !d.AbsoluteValid || math.Abs(d.Absolute-tt.wantAbsolute) > 1e-6 {
				t.Errorf("Expected absolute %v, got %v (valid=%v)", tt.wantAbsolute, d.Absolute, d.AbsoluteValid)
			}
			if d.AbsoluteDisplay != tt.wantAbsDisplay {
				t.Errorf("Expected absolute display %q, got %q", tt.wantAbsDisplay, d.AbsoluteDisplay)
			}
			if !d.PercentValid || d.Percent != tt.wantPercent {
				t.Errorf("Expected percent %v, got %v (valid=%v)", tt.wantPercent, d.Percent, d.PercentValid)
			}
			if d.PercentDisplay != tt.wantPctDisplay {
				t.Errorf("Expected percent display %q, got %q", tt.wantPctDisplay, d.PercentDisplay)
			}
		})
	}
}

func TestCompare_Unavailable(t *testing.T) {
	rec := marion("2022", "100,000", "60,000", "60%", "1", "1", "1%")

	tests := []struct {
		name     string
		current  *turnout.Record
		previous *turnout.Record
	}{
		{"missing previous", rec, nil},
		{"missing current", nil, rec},
		{"missing both", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Compare(tt.current, tt.previous); ok {
				t.Error("Expected comparison to be unavailable")
			}
		})
	}
}

func TestCompare_ZeroPreviousIsUndefinedPercent(t *testing.T) {
	current := marion("2022", "100,000", "60,000", "60%", "40,000", "20,000", "33%")
	previous := marion("2018", "90,000", "50,000", "55%", "50,000", "0", "0%")

	res, ok := Compare(current, previous)
	if !ok {
		t.Fatal("Expected comparison to be available")
	}

	for _, f := range []Field{Absentee, AbsenteePct} {
		d, _ := res.Get(f)
		if d.PercentValid {
			t.Errorf("%s: expected undefined percent, got %v", f, d.Percent)
		}
		if d.PercentDisplay != turnout.NotAvailable {
			t.Errorf("%s: expected N/A display, got %q", f, d.PercentDisplay)
		}
		if math.IsInf(d.Percent, 0) || math.IsNaN(d.Percent) {
			t.Errorf("%s: non-finite percent leaked: %v", f, d.Percent)
		}
		if !d.AbsoluteValid {
			t.Errorf("%s: absolute delta should still be defined", f)
		}
	}

	absentee, _ := res.Get(Absentee)
	if absentee.AbsoluteDisplay != "+20,000" {
		t.Errorf("Expected +20,000, got %q", absentee.AbsoluteDisplay)
	}

	electionDay, _ := res.Get(ElectionDayVote)
	if electionDay.AbsoluteDisplay != "-10,000" || electionDay.PercentDisplay != "-20.00%" {
		t.Errorf("Expected decrease to be signed, got %q (%q)", electionDay.AbsoluteDisplay, electionDay.PercentDisplay)
	}
}

func TestCompare_UnparseableFieldIsNA(t *testing.T) {
	current := marion("2022", "unknown", "60,000", "60%", "40,000", "20,000", "33%")
	previous := marion("2018", "90,000", "50,000", "55%", "35,000", "15,000", "30%")

	res, ok := Compare(current, previous)
	if !ok {
		t.Fatal("Expected comparison to be available")
	}

	reg, _ := res.Get(RegisteredVoters)
	if reg.AbsoluteValid || reg.PercentValid {
		t.Error("Expected unparseable field to have no deltas")
	}
	if reg.Current != turnout.NotAvailable || reg.AbsoluteDisplay != turnout.NotAvailable {
		t.Errorf("Expected N/A displays, got %q / %q", reg.Current, reg.AbsoluteDisplay)
	}

	voting, _ := res.Get(VotersVoting)
	if !voting.PercentValid {
		t.Error("Expected other fields to be compared independently")
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, previous float64
		want              float64
		wantOK            bool
	}{
		{110, 100, 10, true},
		{90, 100, -10, true},
		{100, 100, 0, true},
		{1, 3, -66.67, true},
		{5, 0, 0, false},
		{0, 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := PercentChange(tt.current, tt.previous)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("PercentChange(%v, %v) = %v, %v; want %v, %v",
				tt.current, tt.previous, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"positive count", FormatCountDelta(1234567), "+1,234,567"},
		{"negative count", FormatCountDelta(-2500), "-2,500"},
		{"zero count", FormatCountDelta(0), "0"},
		{"positive percent", FormatPercentChange(11.11), "+11.11%"},
		{"negative percent", FormatPercentChange(-3.5), "-3.50%"},
		{"zero percent", FormatPercentChange(0), "0.00%"},
		{"points", FormatPoints(2.5), "+2.50 pp"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
