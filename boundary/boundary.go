// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package boundary

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrNoKey      = errors.New("boundary key spec needs a name property or a state and county property")
	ErrNoFeatures = errors.New("boundary file has no usable features")
)

// Property names added to features served back to the map
const (
	RegionIDProperty = "region_id"
	LabelPropertyOut = "label"
)

// KeySpec says which feature properties make up the region id.
// Either NameProperty, or StateProperty and CountyProperty for FIPS codes.
type KeySpec struct {
	NameProperty   string `yaml:"name_property" json:"name_property,omitempty"`
	StateProperty  string `yaml:"state_property" json:"state_property,omitempty"`
	CountyProperty string `yaml:"county_property" json:"county_property,omitempty"`
	LabelProperty  string `yaml:"label_property" json:"label_property,omitempty"`
}

// Validate checks that the spec can derive an id
func (k KeySpec) Validate() error {
	if k.NameProperty != "" {
		return nil
	}
	if k.StateProperty != "" && k.CountyProperty != "" {
		return nil
	}
	return ErrNoKey
}

// Boundary is the geometry of one region
type Boundary struct {
	RegionID string
	Name     string
	Geometry orb.Geometry
}

// Parse reads a GeoJSON FeatureCollection. Features whose id cannot be
// derived, or whose geometry is not a polygon, are skipped.
func Parse(data []byte, key KeySpec) ([]Boundary, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode boundaries: %w", err)
	}

	out := make([]Boundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			slog.Warn("skipping non-polygon boundary", "position", i, "type", geometryType(f.Geometry))
			continue
		}

		id := key.RegionID(f.Properties)
		if id == "" {
			slog.Warn("skipping boundary without region id", "position", i)
			continue
		}

		name := propertyString(f.Properties, key.LabelProperty)
		if name == "" {
			name = propertyString(f.Properties, key.NameProperty)
		}
		if name == "" {
			name = id
		}

		out = append(out, Boundary{RegionID: id, Name: name, Geometry: f.Geometry})
	}

	if len(out) == 0 {
		return nil, ErrNoFeatures
	}
	slog.Info("boundaries loaded", "features", len(fc.Features), "usable", len(out))
	return out, nil
}

// RegionID derives the id of a feature: the trimmed name property, or
// the state FIPS (2 digits) followed by the county FIPS (3 digits).
func (k KeySpec) RegionID(props geojson.Properties) string {
	if k.NameProperty != "" {
		return propertyString(props, k.NameProperty)
	}

	state := padDigits(propertyString(props, k.StateProperty), 2)
	county := padDigits(propertyString(props, k.CountyProperty), 3)
	if state == "" || county == "" {
		return ""
	}
	return state + county
}

// FeatureCollection rebuilds GeoJSON with the derived id and label on
// every feature, for clients that bind clicks to region ids.
func FeatureCollection(bs []Boundary) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, b := range bs {
		f := geojson.NewFeature(b.Geometry)
		f.Properties[RegionIDProperty] = b.RegionID
		f.Properties[LabelPropertyOut] = b.Name
		fc.Append(f)
	}
	return fc
}

func propertyString(props geojson.Properties, name string) string {
	if name == "" {
		return ""
	}
	switch v := props[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func padDigits(s string, width int) string {
	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "none"
	}
	return g.GeoJSONType()
}
