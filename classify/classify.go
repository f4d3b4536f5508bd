// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package classify

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownScheme = errors.New("unknown classification scheme")

// Scheme selects how a value is bucketed
type Scheme string

const (
	// AbsoluteTurnout buckets a turnout percentage (0-100)
	AbsoluteTurnout Scheme = "absolute"
	// DeltaTurnout buckets a turnout change in percentage points
	DeltaTurnout Scheme = "delta"
)

// ParseScheme validates a scheme name from configuration
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case AbsoluteTurnout, DeltaTurnout:
		return Scheme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Token identifies a color bucket. NoData is distinct from every value bucket.
type Token string

const (
	NoData Token = "no-data"

	Turnout80 Token = "turnout-80"
	Turnout70 Token = "turnout-70"
	Turnout60 Token = "turnout-60"
	Turnout50 Token = "turnout-50"
	Turnout40 Token = "turnout-40"
	Turnout30 Token = "turnout-30"
	Turnout0  Token = "turnout-0"

	DeltaUpLarge    Token = "delta-up-large"
	DeltaUp         Token = "delta-up"
	DeltaUpSlight   Token = "delta-up-slight"
	DeltaFlat       Token = "delta-flat"
	DeltaDownSlight Token = "delta-down-slight"
	DeltaDown       Token = "delta-down"
	DeltaDownLarge  Token = "delta-down-large"
)

type bucket struct {
	token Token
	min   float64
	// strict buckets require value > min rather than value >= min
	strict bool
	label  string
}

// Buckets are evaluated top-down; the first match wins.
var absoluteBuckets = []bucket{
	{token: Turnout80, min: 80, label: "80% and above"},
	{token: Turnout70, min: 70, label: "70% - 80%"},
	{token: Turnout60, min: 60, label: "60% - 70%"},
	{token: Turnout50, min: 50, label: "50% - 60%"},
	{token: Turnout40, min: 40, label: "40% - 50%"},
	{token: Turnout30, min: 30, label: "30% - 40%"},
	{token: Turnout0, min: math.Inf(-1), label: "Below 30%"},
}

var deltaBuckets = []bucket{
	{token: DeltaUpLarge, min: 5, label: "+5 pp or more"},
	{token: DeltaUp, min: 2, label: "+2 to +5 pp"},
	{token: DeltaUpSlight, min: 0.5, label: "+0.5 to +2 pp"},
	{token: DeltaFlat, min: -0.5, strict: true, label: "Within 0.5 pp"},
	{token: DeltaDownSlight, min: -2, strict: true, label: "-0.5 to -2 pp"},
	{token: DeltaDown, min: -5, strict: true, label: "-2 to -5 pp"},
	{token: DeltaDownLarge, min: math.Inf(-1), label: "-5 pp or less"},
}

// Classify maps a value to its bucket token. A nil or NaN value is NoData.
func Classify(value *float64, scheme Scheme) Token {
	if value == nil || math.IsNaN(*value) {
		return NoData
	}

	for _, b := range bucketsFor(scheme) {
		if b.strict {
			if *value > b.min {
				return b.token
			}
			continue
		}
		if *value >= b.min {
			return b.token
		}
	}
	return NoData
}

// Tokens returns the scheme's tokens from highest bucket to lowest
func Tokens(scheme Scheme) []Token {
	bs := bucketsFor(scheme)
	out := make([]Token, len(bs))
	for i, b := range bs {
		out[i] = b.token
	}
	return out
}

func bucketsFor(scheme Scheme) []bucket {
	if scheme == DeltaTurnout {
		return deltaBuckets
	}
	return absoluteBuckets
}
