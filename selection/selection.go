// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSlot   = errors.New("invalid slot")
	ErrEmptyCategory = errors.New("category is required")
	ErrEmptyPeriod   = errors.New("period is required")
)

// DefaultCategory is restored whenever the selection is reset
const DefaultCategory = "General"

// Slot is one side of the comparison
type Slot int

const (
	Current Slot = iota
	Previous
)

// Slots lists both slots in display order
var Slots = []Slot{Current, Previous}

func (s Slot) String() string {
	switch s {
	case Current:
		return "current"
	case Previous:
		return "previous"
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// ParseSlot reads "current" or "previous"
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current":
		return Current, nil
	case "previous":
		return Previous, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

func (s Slot) valid() bool {
	return s == Current || s == Previous
}

// SlotState is the period and category chosen for one slot
type SlotState struct {
	Period   string `json:"period"`
	Category string `json:"category"`
}

// Snapshot is a copy of the selection at one moment.
// An empty Region means the whole territory.
type Snapshot struct {
	Region   string    `json:"region,omitempty"`
	Current  SlotState `json:"current"`
	Previous SlotState `json:"previous"`
}

// Slot returns the state of one slot
func (s Snapshot) Slot(slot Slot) SlotState {
	if slot == Previous {
		return s.Previous
	}
	return s.Current
}

// HasRegion reports whether a single region is selected
func (s Snapshot) HasRegion() bool {
	return s.Region != ""
}

// State is the mutable selection of one viewer. It knows nothing about
// rendering; callers redraw after every mutation.
type State struct {
	region     string
	categories [2]string
	periods    [2]string
}

// New returns a state with no region, both categories at the default, and
// the given periods.
func New(currentPeriod, previousPeriod string) *State {
	return &State{
		categories: [2]string{DefaultCategory, DefaultCategory},
		periods:    [2]string{strings.TrimSpace(currentPeriod), strings.TrimSpace(previousPeriod)},
	}
}

// SelectRegion selects a region. Selecting the region that is already
// selected, or the empty id, clears the selection and resets both
// categories to the default.
func (s *State) SelectRegion(id string) {
	id = strings.TrimSpace(id)
	if id == "" || id == s.region {
		s.reset()
		return
	}
	s.region = id
}

// SelectCategory sets the category of one slot
func (s *State) SelectCategory(slot Slot, category string) error {
	if !slot.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrEmptyCategory
	}
	s.categories[slot] = category
	return nil
}

// SelectPeriod sets the period of one slot
func (s *State) SelectPeriod(slot Slot, period string) error {
	if !slot.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, int(slot))
	}
	period = strings.TrimSpace(period)
	if period == "" {
		return ErrEmptyPeriod
	}
	s.periods[slot] = period
	return nil
}

// ClearRegion returns to the whole territory. Categories are kept.
func (s *State) ClearRegion() {
	s.region = ""
}

// Snapshot returns a copy of the current selection
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Region:   s.region,
		Current:  SlotState{Period: s.periods[Current], Category: s.categories[Current]},
		Previous: SlotState{Period: s.periods[Previous], Category: s.categories[Previous]},
	}
}

func (s *State) reset() {
	s.region = ""
	s.categories = [2]string{DefaultCategory, DefaultCategory}
}
