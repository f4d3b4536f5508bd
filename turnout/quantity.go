// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package turnout

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is the display text for a missing or unparseable value
const NotAvailable = "N/A"

// Quantity is one numeric field of a record.
// Percentages are stored as fractions in Value; Display keeps the source text.
type Quantity struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Valid   bool    `json:"valid"`
}

// String returns the display text, or N/A when the value is not usable
func (q Quantity) String() string {
	if !q.Valid {
		return NotAvailable
	}
	return q.Display
}

// Percent returns the value in percent units (0.613 -> 61.3)
func (q Quantity) Percent() float64 {
	return q.Value * 100
}

// ParseCount reads a count such as "100,000", 100000 or "100000".
func ParseCount(v any) Quantity {
	switch t := v.(type) {
	case nil:
		return Quantity{}
	case string:
		s := strings.TrimSpace(t)
		n, err := parseNumber(s)
		if err != nil {
			return Quantity{Display: s}
		}
		return Quantity{Value: n, Display: s, Valid: true}
	default:
		n, ok := toFloat(t)
		if !ok {
			return Quantity{}
		}
		return Quantity{Value: n, Display: formatCount(n), Valid: true}
	}
}

// ParsePercent reads a percentage in either representation the datasets use:
// a formatted string ("61.3%") or a decimal fraction (0.613).
// A bare number greater than 1 is taken as percent units.
func ParsePercent(v any) Quantity {
	switch t := v.(type) {
	case nil:
		return Quantity{}
	case string:
		s := strings.TrimSpace(t)
		body := strings.TrimSpace(strings.TrimSuffix(s, "%"))
		n, err := parseNumber(body)
		if err != nil {
			return Quantity{Display: s}
		}
		if strings.HasSuffix(s, "%") || n > 1 {
			n /= 100
		}
		return Quantity{Value: n, Display: s, Valid: true}
	default:
		n, ok := toFloat(t)
		if !ok {
			return Quantity{}
		}
		if n > 1 {
			n /= 100
		}
		return Quantity{Value: n, Display: FormatPercent(n), Valid: true}
	}
}

// FormatPercent renders a fraction as "61.3%"
func FormatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

func formatCount(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return humanize.Comma(int64(n))
	}
	return humanize.Commaf(n)
}

// parseNumber strips thousands separators before parsing
func parseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return 0, fmt.Errorf("empty number")
	}
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return n, nil
}

func toFloat(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
