// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dbarwick10/VoterTurnout/boundary"
	"github.com/dbarwick10/VoterTurnout/classify"
	"github.com/dbarwick10/VoterTurnout/compare"
	"github.com/dbarwick10/VoterTurnout/profile"
	"github.com/dbarwick10/VoterTurnout/selection"
	"github.com/dbarwick10/VoterTurnout/turnout"
)

var (
	ErrNoPeriods       = errors.New("dataset has no periods")
	ErrUnknownRegion   = errors.New("unknown region")
	ErrUnknownPeriod   = errors.New("unknown period")
	ErrUnknownCategory = errors.New("unknown category")
)

// Scene is the read-only half of the map: the loaded index and boundaries
// plus the profile that says how to color them. One Scene serves every
// session.
type Scene struct {
	index      *turnout.Index
	boundaries []boundary.Boundary
	names      map[string]string
	profile    profile.Profile
	palette    classify.Palette

	currentPeriod  string
	previousPeriod string
}

// NewScene joins an index with its boundaries under a profile
func NewScene(idx *turnout.Index, bs []boundary.Boundary, prof profile.Profile) (*Scene, error) {
	if idx == nil {
		return nil, errors.New("scene needs an index")
	}
	palette, err := prof.Palette()
	if err != nil {
		return nil, fmt.Errorf("failed to build palette: %w", err)
	}

	s := &Scene{
		index:      idx,
		boundaries: bs,
		names:      make(map[string]string, len(bs)),
		profile:    prof,
		palette:    palette,
	}
	for _, b := range bs {
		s.names[b.RegionID] = b.Name
	}

	periods := idx.Periods()
	s.currentPeriod = prof.CurrentPeriod
	s.previousPeriod = prof.PreviousPeriod
	if s.currentPeriod == "" && len(periods) > 0 {
		s.currentPeriod = periods[0]
	}
	if s.previousPeriod == "" && len(periods) > 1 {
		s.previousPeriod = periods[1]
	}
	if s.previousPeriod == "" {
		s.previousPeriod = s.currentPeriod
	}
	if s.currentPeriod == "" {
		return nil, ErrNoPeriods
	}
	return s, nil
}

func (s *Scene) Index() *turnout.Index { return s.index }

func (s *Scene) Boundaries() []boundary.Boundary { return s.boundaries }

func (s *Scene) Profile() profile.Profile { return s.profile }

func (s *Scene) Palette() classify.Palette { return s.palette }

// DefaultPeriods returns the periods a new selection starts with
func (s *Scene) DefaultPeriods() (current, previous string) {
	return s.currentPeriod, s.previousPeriod
}

// NewState returns a selection at the scene's defaults
func (s *Scene) NewState() *selection.State {
	return selection.New(s.currentPeriod, s.previousPeriod)
}

// Legend returns the legend of the profile's scheme
func (s *Scene) Legend() []classify.LegendEntry {
	return classify.Legend(s.profile.Scheme, s.palette)
}

// CheckRegion accepts any region with a boundary or a dataset record
func (s *Scene) CheckRegion(id string) error {
	id = strings.TrimSpace(id)
	if _, ok := s.names[id]; ok {
		return nil
	}
	if slices.Contains(s.index.Regions(), id) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownRegion, id)
}

// CheckPeriod accepts periods present in the dataset
func (s *Scene) CheckPeriod(p string) error {
	p = strings.TrimSpace(p)
	if slices.Contains(s.index.Periods(), p) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
}

// CheckCategory accepts dataset categories. Datasets without a category
// axis accept anything, since lookups ignore it.
func (s *Scene) CheckCategory(c string) error {
	c = strings.TrimSpace(c)
	if !s.index.HasCategories() || slices.Contains(s.index.Categories(), c) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}

// Maps classifies every boundary for the selection. The absolute scheme
// yields a current and a previous map; the delta scheme yields one map of
// turnout change in percentage points.
func (s *Scene) Maps(snap selection.Snapshot) []MapFrame {
	if s.profile.Scheme == classify.DeltaTurnout {
		return []MapFrame{s.changeMap(snap)}
	}
	return []MapFrame{
		s.turnoutMap(MapCurrent, snap, snap.Current),
		s.turnoutMap(MapPrevious, snap, snap.Previous),
	}
}

func (s *Scene) turnoutMap(name string, snap selection.Snapshot, slot selection.SlotState) MapFrame {
	m := s.newMap(name, slot)
	for _, b := range s.boundaries {
		var value *float64
		if rec, ok := s.index.Lookup(b.RegionID, slot.Period, slot.Category); ok && rec.Turnout.Valid {
			v := rec.Turnout.Percent()
			value = &v
		}
		m.Features = append(m.Features, s.style(b, snap, classify.Classify(value, classify.AbsoluteTurnout)))
	}
	return m
}

func (s *Scene) changeMap(snap selection.Snapshot) MapFrame {
	m := s.newMap(MapChange, snap.Current)
	for _, b := range s.boundaries {
		var value *float64
		cur, okCur := s.index.Lookup(b.RegionID, snap.Current.Period, snap.Current.Category)
		prev, okPrev := s.index.Lookup(b.RegionID, snap.Previous.Period, snap.Previous.Category)
		if okCur && okPrev && cur.Turnout.Valid && prev.Turnout.Valid {
			v := compare.Round2(cur.Turnout.Percent() - prev.Turnout.Percent())
			value = &v
		}
		m.Features = append(m.Features, s.style(b, snap, classify.Classify(value, classify.DeltaTurnout)))
	}
	return m
}

func (s *Scene) newMap(name string, slot selection.SlotState) MapFrame {
	return MapFrame{
		Name:     name,
		Period:   slot.Period,
		Category: s.category(slot.Category),
		Features: make([]FeatureStyle, 0, len(s.boundaries)),
	}
}

func (s *Scene) style(b boundary.Boundary, snap selection.Snapshot, tok classify.Token) FeatureStyle {
	fs := FeatureStyle{
		RegionID:     b.RegionID,
		Label:        s.profile.RegionLabel(b.Name),
		Token:        tok,
		FillColor:    s.palette.Color(tok),
		Weight:       DefaultWeight,
		OutlineColor: DefaultOutline,
		FillOpacity:  DefaultFillOpacity,
	}
	if snap.HasRegion() && b.RegionID == snap.Region {
		fs.Weight = SelectedWeight
		fs.OutlineColor = SelectedOutline
		fs.FillOpacity = SelectedFillOpacity
	}
	return fs
}

// Panel builds the detail panel. With no region selected it shows the
// territory aggregate row, when the dataset has one.
func (s *Scene) Panel(snap selection.Snapshot) Panel {
	region := snap.Region
	if region == "" {
		region = s.profile.TerritoryID
	}

	cur, okCur := s.lookup(region, snap.Current)
	prev, okPrev := s.lookup(region, snap.Previous)

	p := Panel{
		RegionID: region,
		Label:    s.label(snap.Region, cur, okCur),
		Current:  s.side(snap.Current, cur, okCur),
		Previous: s.side(snap.Previous, prev, okPrev),
	}
	p.Title = p.Label + ": " + snap.Current.Period

	var curRec, prevRec *turnout.Record
	if okCur {
		curRec = &cur
	}
	if okPrev {
		prevRec = &prev
	}
	if res, ok := compare.Compare(curRec, prevRec); ok {
		p.Comparison = &Comparison{
			Title:  slotLabel(p.Previous.Period, p.Previous.Category) + " to " + slotLabel(p.Current.Period, p.Current.Category),
			Result: res,
		}
	}
	return p
}

func (s *Scene) lookup(region string, slot selection.SlotState) (turnout.Record, bool) {
	if region == "" {
		return turnout.Record{}, false
	}
	return s.index.Lookup(region, slot.Period, slot.Category)
}

func (s *Scene) label(region string, rec turnout.Record, found bool) string {
	if region == "" || region == s.profile.TerritoryID {
		return s.profile.TerritoryLabel
	}
	name, ok := s.names[region]
	if !ok || name == "" {
		name = region
		if found && rec.County != "" {
			name = rec.County
		}
	}
	label := s.profile.RegionLabel(name)
	if found && rec.State != "" {
		label += ", " + rec.State
	}
	return label
}

func (s *Scene) side(slot selection.SlotState, rec turnout.Record, found bool) PanelSide {
	side := PanelSide{
		Period:   slot.Period,
		Category: s.category(slot.Category),
		Found:    found,
		Fields:   make([]FieldValue, 0, len(compare.Fields)),
	}
	for _, spec := range compare.Fields {
		value := turnout.NotAvailable
		if found {
			value = spec.Get(rec).String()
		}
		side.Fields = append(side.Fields, FieldValue{Field: spec.Field, Label: spec.Label, Value: value})
	}
	return side
}

// category hides the selection's category when the dataset has none
func (s *Scene) category(c string) string {
	if !s.index.HasCategories() {
		return ""
	}
	return c
}
