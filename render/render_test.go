// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dbarwick10/VoterTurnout/boundary"
	"github.com/dbarwick10/VoterTurnout/classify"
	"github.com/dbarwick10/VoterTurnout/compare"
	"github.com/dbarwick10/VoterTurnout/profile"
	"github.com/dbarwick10/VoterTurnout/selection"
	"github.com/dbarwick10/VoterTurnout/turnout"
)

const indianaJSON = `[
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

const nationalJSON = `[
  {"fips": 18097, "year": 2020, "state": "Indiana", "county": "Marion",
   "registered_voters": 650000, "voters_voting": 390000, "turnout": 0.6},
  {"fips": 18097, "year": 2016, "state": "Indiana", "county": "Marion",
   "registered_voters": 600000, "voters_voting": 330000, "turnout": 0.55}
]`

var indianaBoundaries = []boundary.Boundary{
	{RegionID: "Marion", Name: "Marion"},
	{RegionID: "Lake", Name: "Lake"},
}

func newScene(t *testing.T, profileName, data string, bs []boundary.Boundary) *Scene {
	t.Helper()
	prof, err := profile.Load(profileName)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	raws, err := turnout.DecodeRecords([]byte(data))
	if err != nil {
		t.Fatalf("Failed to decode records: %v", err)
	}
	idx, err := turnout.Build(raws, prof.Shape)
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	scene, err := NewScene(idx, bs, prof)
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	return scene
}

func newCoordinator(t *testing.T, profileName string) (*Coordinator, *FrameRenderer) {
	t.Helper()
	fr := NewFrameRenderer()
	c := NewCoordinator(newScene(t, profileName, indianaJSON, indianaBoundaries), fr)
	if err := c.Redraw(); err != nil {
		t.Fatalf("Initial redraw failed: %v", err)
	}
	return c, fr
}

func feature(t *testing.T, m MapFrame, region string) FeatureStyle {
	t.Helper()
	for _, f := range m.Features {
		if f.RegionID == region {
			return f
		}
	}
	t.Fatalf("No feature for %s in map %s", region, m.Name)
	return FeatureStyle{}
}

func TestCoordinator_InitialFrame(t *testing.T) {
	_, fr := newCoordinator(t, "indiana")
	frame := fr.Last()

	if len(frame.Maps) != 2 {
		t.Fatalf("Expected 2 maps, got %d", len(frame.Maps))
	}
	if frame.Maps[0].Name != MapCurrent || frame.Maps[1].Name != MapPrevious {
		t.Errorf("Unexpected map order %s, %s", frame.Maps[0].Name, frame.Maps[1].Name)
	}

	tests := []struct {
		mapIdx    int
		region    string
		wantToken classify.Token
	}{
		{0, "Marion", classify.Turnout60},
		{1, "Marion", classify.Turnout60},
		{0, "Lake", classify.NoData},
		{1, "Lake", classify.NoData},
	}
	palette := classify.DefaultPalette()
	for _, tt := range tests {
		f := feature(t, frame.Maps[tt.mapIdx], tt.region)
		if f.Token != tt.wantToken {
			t.Errorf("%s in %s: expected %s, got %s", tt.region, frame.Maps[tt.mapIdx].Name, tt.wantToken, f.Token)
		}
		if f.FillColor != palette.Color(tt.wantToken) {
			t.Errorf("%s: expected fill %s, got %s", tt.region, palette.Color(tt.wantToken), f.FillColor)
		}
		if f.Weight != DefaultWeight || f.OutlineColor != DefaultOutline || f.FillOpacity != DefaultFillOpacity {
			t.Errorf("%s: expected default outline, got %+v", tt.region, f)
		}
	}

	p := frame.Panel
	if p.Title != "Indiana: 2022" {
		t.Errorf("Expected title 'Indiana: 2022', got %q", p.Title)
	}
	if p.RegionID != "Indiana" || !p.Current.Found {
		t.Errorf("Expected the territory row for the current side, got %+v", p.Current)
	}
	if p.Previous.Found {
		t.Error("Expected no territory row for 2018")
	}
	for _, f := range p.Previous.Fields {
		if f.Value != turnout.NotAvailable {
			t.Errorf("Expected N/A for %s, got %q", f.Label, f.Value)
		}
	}
	if p.Comparison != nil {
		t.Error("Expected comparison to be unavailable")
	}
}

func TestCoordinator_SelectRegion(t *testing.T) {
	c, fr := newCoordinator(t, "indiana")

	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatalf("SelectRegion failed: %v", err)
	}
	frame := fr.Last()

	marion := feature(t, frame.Maps[0], "Marion")
	if marion.Weight != SelectedWeight || marion.OutlineColor != SelectedOutline || marion.FillOpacity != SelectedFillOpacity {
		t.Errorf("Expected selected outline on Marion, got %+v", marion)
	}
	if lake := feature(t, frame.Maps[0], "Lake"); lake.Weight != DefaultWeight {
		t.Errorf("Expected default outline on Lake, got %+v", lake)
	}

	p := frame.Panel
	if p.Title != "Marion County: 2022" {
		t.Errorf("Expected title 'Marion County: 2022', got %q", p.Title)
	}
	if p.Comparison == nil {
		t.Fatal("Expected a comparison")
	}
	if p.Comparison.Title != "2018 General to 2022 General" {
		t.Errorf("Unexpected comparison title %q", p.Comparison.Title)
	}
	d, ok := p.Comparison.Get(compare.RegisteredVoters)
	if !ok || d.AbsoluteDisplay != "+10,000" || d.PercentDisplay != "+11.11%" {
		t.Errorf("Unexpected registered voters delta %+v", d)
	}
	d, ok = p.Comparison.Get(compare.VotersVoting)
	if !ok || d.AbsoluteDisplay != "+10,000" || d.PercentDisplay != "+20.00%" {
		t.Errorf("Unexpected voters voting delta %+v", d)
	}
}

func TestCoordinator_ToggleRestoresDefault(t *testing.T) {
	c, fr := newCoordinator(t, "indiana")
	initial := fr.Last()

	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectCategory(selection.Previous, turnout.CategoryPrimary); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}

	snap := c.Snapshot()
	if snap.HasRegion() {
		t.Errorf("Expected no region, got %q", snap.Region)
	}
	if snap.Current.Category != selection.DefaultCategory || snap.Previous.Category != selection.DefaultCategory {
		t.Errorf("Expected both categories reset, got %+v", snap)
	}
	if got := fr.Last().Panel.Title; got != initial.Panel.Title {
		t.Errorf("Expected panel back to %q, got %q", initial.Panel.Title, got)
	}
}

func TestCoordinator_SelectCategoryRedraws(t *testing.T) {
	c, fr := newCoordinator(t, "indiana")
	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectCategory(selection.Current, turnout.CategoryPrimary); err != nil {
		t.Fatalf("SelectCategory failed: %v", err)
	}

	frame := fr.Last()
	if got := feature(t, frame.Maps[0], "Marion").Token; got != classify.Turnout0 {
		t.Errorf("Expected primary turnout bucket, got %s", got)
	}
	if frame.Maps[0].Category != turnout.CategoryPrimary {
		t.Errorf("Expected current map category Primary, got %q", frame.Maps[0].Category)
	}
	if frame.Panel.Comparison == nil || frame.Panel.Comparison.Title != "2018 General to 2022 Primary" {
		t.Errorf("Unexpected comparison %+v", frame.Panel.Comparison)
	}
}

func TestCoordinator_SelectPeriodReturnsToTerritory(t *testing.T) {
	c, fr := newCoordinator(t, "indiana")
	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectCategory(selection.Previous, "Primary"); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectPeriod(selection.Current, "2018"); err != nil {
		t.Fatalf("SelectPeriod failed: %v", err)
	}

	snap := c.Snapshot()
	if snap.HasRegion() {
		t.Errorf("Expected region cleared by a period change, got %q", snap.Region)
	}
	if snap.Previous.Category != "Primary" {
		t.Errorf("Expected categories kept, got %+v", snap.Previous)
	}

	frame := fr.Last()
	if frame.Panel.Title != "Indiana: 2018" {
		t.Errorf("Expected 'Indiana: 2018', got '%s'", frame.Panel.Title)
	}
	if f := feature(t, frame.Maps[0], "Marion"); f.Weight != DefaultWeight {
		t.Errorf("Expected Marion unhighlighted, got %+v", f)
	}

	// the same county can be picked again against the new period
	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}
	if got := fr.Last().Panel.Title; got != "Marion County: 2018" {
		t.Errorf("Expected 'Marion County: 2018', got '%s'", got)
	}
}

func TestCoordinator_RejectsUnknownValues(t *testing.T) {
	c, fr := newCoordinator(t, "indiana")
	before := fr.Frames()

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"region", func() error { return c.SelectRegion("Atlantis") }, ErrUnknownRegion},
		{"period", func() error { return c.SelectPeriod(selection.Current, "1850") }, ErrUnknownPeriod},
		{"category", func() error { return c.SelectCategory(selection.Current, "Runoff") }, ErrUnknownCategory},
		{"slot", func() error { return c.SelectPeriod(selection.Slot(7), "2022") }, selection.ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if fr.Frames() != before {
		t.Errorf("Expected no redraw after rejected input, got %d frames", fr.Frames()-before)
	}
}

func TestScene_DeltaScheme(t *testing.T) {
	_, fr := newCoordinator(t, "indiana-change")
	frame := fr.Last()

	if len(frame.Maps) != 1 || frame.Maps[0].Name != MapChange {
		t.Fatalf("Expected a single change map, got %+v", frame.Maps)
	}
	if got := feature(t, frame.Maps[0], "Marion").Token; got != classify.DeltaUp {
		t.Errorf("Expected %s for a 3 point rise, got %s", classify.DeltaUp, got)
	}
	if got := feature(t, frame.Maps[0], "Lake").Token; got != classify.NoData {
		t.Errorf("Expected no-data for Lake, got %s", got)
	}
}

func TestScene_DeltaSchemeBucketEdges(t *testing.T) {
	rows := []struct {
		region    string
		cur, prev string
		expected  classify.Token
	}{
		{"Marion", "26.9%", "26.4%", classify.DeltaUpSlight},
		{"Lake", "30.1%", "28.1%", classify.DeltaUp},
		{"Allen", "47.3%", "42.3%", classify.DeltaUpLarge},
		{"Boone", "26.4%", "26.9%", classify.DeltaDownSlight},
		{"Clay", "28.1%", "30.1%", classify.DeltaDown},
		{"Dubois", "42.3%", "47.3%", classify.DeltaDownLarge},
	}

	var data strings.Builder
	var bs []boundary.Boundary
	data.WriteString("[")
	for i, r := range rows {
		if i > 0 {
			data.WriteString(",")
		}
		for j, y := range []struct{ year, turnout string }{{"2022", r.cur}, {"2018", r.prev}} {
			if j > 0 {
				data.WriteString(",")
			}
			data.WriteString(`{"Year": ` + y.year + `, "County": "` + r.region + `", "Election Type": "General", "Turnout (%)": "` + y.turnout + `"}`)
		}
		bs = append(bs, boundary.Boundary{RegionID: r.region, Name: r.region})
	}
	data.WriteString("]")

	fr := NewFrameRenderer()
	c := NewCoordinator(newScene(t, "indiana-change", data.String(), bs), fr)
	if err := c.Redraw(); err != nil {
		t.Fatal(err)
	}

	for _, r := range rows {
		t.Run(r.region, func(t *testing.T) {
			if got := feature(t, fr.Last().Maps[0], r.region).Token; got != r.expected {
				t.Errorf("%s to %s: expected %s, got %s", r.prev, r.cur, r.expected, got)
			}
		})
	}

	// map and panel agree on the edge value
	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}
	d, ok := fr.Last().Panel.Comparison.Get(compare.Turnout)
	if !ok || d.AbsoluteDisplay != "+0.50 pp" {
		t.Errorf("Expected '+0.50 pp' in the panel, got %+v", d)
	}
}

func TestScene_TerritoryLabel(t *testing.T) {
	c, fr := newCoordinator(t, "indiana")
	if err := c.SelectRegion("Indiana"); err != nil {
		t.Fatal(err)
	}
	if got := fr.Last().Panel.Title; got != "Indiana: 2022" {
		t.Errorf("Expected 'Indiana: 2022', got '%s'", got)
	}
}

func TestScene_National(t *testing.T) {
	bs := []boundary.Boundary{{RegionID: "18097", Name: "Marion"}}
	scene := newScene(t, "national", nationalJSON, bs)

	state := scene.NewState()
	state.SelectRegion("18097")
	p := scene.Panel(state.Snapshot())

	if p.Label != "Marion, Indiana" {
		t.Errorf("Expected 'Marion, Indiana', got %q", p.Label)
	}
	if p.Current.Category != "" || p.Previous.Category != "" {
		t.Error("Expected categories hidden for a dataset without them")
	}
	if p.Comparison == nil || p.Comparison.Title != "2016 to 2020" {
		t.Errorf("Unexpected comparison %+v", p.Comparison)
	}

	state.SelectRegion("18097")
	p = scene.Panel(state.Snapshot())
	if p.Label != "United States" || p.Current.Found {
		t.Errorf("Expected territory label with no data, got %+v", p)
	}
}

func TestNewScene_DefaultPeriodsFromIndex(t *testing.T) {
	prof, err := profile.Load("indiana")
	if err != nil {
		t.Fatal(err)
	}
	prof.CurrentPeriod, prof.PreviousPeriod = "", ""

	raws, _ := turnout.DecodeRecords([]byte(indianaJSON))
	idx, err := turnout.Build(raws, prof.Shape)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := NewScene(idx, indianaBoundaries, prof)
	if err != nil {
		t.Fatal(err)
	}

	cur, prev := scene.DefaultPeriods()
	if cur != "2022" || prev != "2018" {
		t.Errorf("Expected 2022/2018, got %s/%s", cur, prev)
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	c := NewCoordinator(newScene(t, "indiana", indianaJSON, indianaBoundaries), NewTextRenderer(&buf))
	if err := c.SelectRegion("Marion"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"map current 2022 General: turnout-60=1 no-data=1",
		"Marion County: 2022",
		"2018 General to 2022 General",
		"+10,000 (+11.11%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
}
