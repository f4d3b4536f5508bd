// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compare

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatCountDelta renders a count change with grouping and sign: "+10,000"
func FormatCountDelta(v float64) string {
	var s string
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		s = humanize.Comma(int64(v))
	} else {
		s = humanize.Commaf(v)
	}
	if v > 0 {
		return "+" + s
	}
	return s
}

// FormatPercentChange renders a relative change: "+11.11%"
func FormatPercentChange(v float64) string {
	return signed(v) + "%"
}

// FormatPoints renders a percentage-point change: "+2.50 pp"
func FormatPoints(v float64) string {
	return signed(v) + " pp"
}

func signed(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}
