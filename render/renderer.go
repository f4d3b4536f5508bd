// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dbarwick10/VoterTurnout/classify"
	"github.com/dbarwick10/VoterTurnout/compare"
	"github.com/dbarwick10/VoterTurnout/selection"
)

// Map names
const (
	MapCurrent  = "current"
	MapPrevious = "previous"
	MapChange   = "change"
)

// Outline styles
const (
	SelectedWeight      = 3
	SelectedOutline     = "#ffff00"
	SelectedFillOpacity = 0.9
	DefaultWeight       = 1
	DefaultOutline      = "white"
	DefaultFillOpacity  = 0.7
)

// FeatureStyle is the style of one boundary feature. RegionID is the value
// a click on the feature reports back to the selection.
type FeatureStyle struct {
	RegionID     string         `json:"region_id"`
	Label        string         `json:"label"`
	Token        classify.Token `json:"token"`
	FillColor    string         `json:"fill_color"`
	Weight       int            `json:"weight"`
	OutlineColor string         `json:"outline_color"`
	FillOpacity  float64        `json:"fill_opacity"`
}

// MapFrame is one painted map
type MapFrame struct {
	Name     string         `json:"name"`
	Period   string         `json:"period"`
	Category string         `json:"category,omitempty"`
	Features []FeatureStyle `json:"features"`
}

// FieldValue is one displayed field of a panel side
type FieldValue struct {
	Field compare.Field `json:"field"`
	Label string        `json:"label"`
	Value string        `json:"value"`
}

// PanelSide is the record of one slot as displayed. Found is false when
// the dataset has no record, and every value is then "N/A".
type PanelSide struct {
	Period   string       `json:"period"`
	Category string       `json:"category,omitempty"`
	Found    bool         `json:"found"`
	Fields   []FieldValue `json:"fields"`
}

// Comparison is the panel's change section
type Comparison struct {
	Title string `json:"title"`
	compare.Result
}

// Panel is the detail panel content. Comparison is nil when either side
// is missing.
type Panel struct {
	RegionID   string      `json:"region_id,omitempty"`
	Label      string      `json:"label"`
	Title      string      `json:"title"`
	Current    PanelSide   `json:"current"`
	Previous   PanelSide   `json:"previous"`
	Comparison *Comparison `json:"comparison"`
}

// Frame is everything one redraw produced
type Frame struct {
	State selection.Snapshot `json:"state"`
	Maps  []MapFrame         `json:"maps"`
	Panel Panel              `json:"panel"`
}

// Renderer paints what the coordinator derived. A redraw calls PaintMap
// once per map, then PaintPanel once.
type Renderer interface {
	PaintMap(m MapFrame) error
	PaintPanel(p Panel) error
}

// FrameRenderer keeps the most recent complete frame in memory
type FrameRenderer struct {
	mu      sync.RWMutex
	pending []MapFrame
	last    Frame
	frames  int
}

// NewFrameRenderer returns an empty frame renderer
func NewFrameRenderer() *FrameRenderer {
	return &FrameRenderer{}
}

func (r *FrameRenderer) PaintMap(m MapFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, m)
	return nil
}

func (r *FrameRenderer) PaintPanel(p Panel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = Frame{Maps: r.pending, Panel: p}
	r.pending = nil
	r.frames++
	return nil
}

// Last returns the most recent frame. State is filled in by the coordinator.
func (r *FrameRenderer) Last() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Frames returns how many frames were completed
func (r *FrameRenderer) Frames() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}

// TextRenderer writes the panel as plain text. Maps are summarized as
// bucket counts.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer writes to w
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) PaintMap(m MapFrame) error {
	counts := make(map[classify.Token]int)
	var order []classify.Token
	for _, f := range m.Features {
		if counts[f.Token] == 0 {
			order = append(order, f.Token)
		}
		counts[f.Token]++
	}

	parts := make([]string, 0, len(order))
	for _, tok := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", tok, counts[tok]))
	}
	_, err := fmt.Fprintf(r.w, "map %s %s: %s\n", m.Name, slotLabel(m.Period, m.Category), strings.Join(parts, " "))
	return err
}

func (r *TextRenderer) PaintPanel(p Panel) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Title)

	for _, side := range []PanelSide{p.Current, p.Previous} {
		fmt.Fprintf(&b, "\n%s\n", slotLabel(side.Period, side.Category))
		for _, f := range side.Fields {
			fmt.Fprintf(&b, "  %-18s %s\n", f.Label+":", f.Value)
		}
	}

	b.WriteString("\n")
	if p.Comparison == nil {
		b.WriteString("Comparison unavailable\n")
	} else {
		fmt.Fprintf(&b, "%s\n", p.Comparison.Title)
		for _, d := range p.Comparison.Deltas {
			fmt.Fprintf(&b, "  %-18s %s (%s)\n", d.Label+":", d.AbsoluteDisplay, d.PercentDisplay)
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func slotLabel(period, category string) string {
	if category == "" {
		return period
	}
	return period + " " + category
}
