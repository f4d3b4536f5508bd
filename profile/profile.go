// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package profile

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbarwick10/VoterTurnout/boundary"
	"github.com/dbarwick10/VoterTurnout/classify"
	"github.com/dbarwick10/VoterTurnout/turnout"
)

//go:embed profiles/*.yaml
var builtins embed.FS

var (
	ErrUnknownProfile = errors.New("unknown profile")
	ErrInvalidProfile = errors.New("invalid profile")
)

// Profile configures one deployment: which dataset shape to read, how
// boundaries map to regions, and which classification scheme colors the map.
type Profile struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`

	// TerritoryID is the dataset region holding whole-territory totals.
	// Empty when the dataset has no aggregate row.
	TerritoryID    string `yaml:"territory_id" json:"territory_id,omitempty"`
	TerritoryLabel string `yaml:"territory_label" json:"territory_label"`
	RegionSuffix   string `yaml:"region_suffix" json:"region_suffix,omitempty"`

	Scheme     classify.Scheme `yaml:"scheme" json:"scheme"`
	Dataset    string          `yaml:"dataset" json:"dataset"`
	Boundaries string          `yaml:"boundaries" json:"boundaries"`

	CurrentPeriod  string `yaml:"current_period" json:"current_period,omitempty"`
	PreviousPeriod string `yaml:"previous_period" json:"previous_period,omitempty"`

	Shape       turnout.Shape             `yaml:"shape" json:"shape"`
	BoundaryKey boundary.KeySpec          `yaml:"boundary_key" json:"boundary_key"`
	Colors      map[classify.Token]string `yaml:"colors" json:"colors,omitempty"`
}

// Parse decodes a YAML profile and validates it
func Parse(data []byte) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Load returns a built-in profile by name
func Load(name string) (Profile, error) {
	data, err := builtins.ReadFile(path.Join("profiles", name+".yaml"))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}

// LoadFile reads a profile from disk
func LoadFile(filename string) (Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Names lists the built-in profiles
func Names() []string {
	entries, err := builtins.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Validate checks the fields every deployment needs
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if _, err := classify.ParseScheme(string(p.Scheme)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.Name, err)
	}
	if p.Shape.Region == "" || p.Shape.Period == "" || p.Shape.Turnout == "" {
		return fmt.Errorf("%w: %s: shape needs region, period and turnout fields", ErrInvalidProfile, p.Name)
	}
	if err := p.BoundaryKey.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.Name, err)
	}
	if _, err := p.Palette(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.Name, err)
	}
	return nil
}

// Palette returns the default palette with the profile's color overrides
func (p Profile) Palette() (classify.Palette, error) {
	return classify.DefaultPalette().With(p.Colors)
}

// RegionLabel renders a region name for display, e.g. "Marion County"
func (p Profile) RegionLabel(name string) string {
	if name == "" {
		return p.TerritoryLabel
	}
	return name + p.RegionSuffix
}
