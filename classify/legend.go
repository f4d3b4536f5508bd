// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package classify

// NoDataLabel is the legend label of the NoData token
const NoDataLabel = "No data"

// LegendEntry describes one bucket of a map legend
type LegendEntry struct {
	Token     Token  `json:"token"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// Legend lists the scheme's buckets from highest to lowest, then NoData.
func Legend(scheme Scheme, p Palette) []LegendEntry {
	bs := bucketsFor(scheme)
	entries := make([]LegendEntry, 0, len(bs)+1)
	for _, b := range bs {
		entries = append(entries, LegendEntry{
			Token:     b.token,
			Label:     b.label,
			Color:     p.Color(b.token),
			TextColor: p.TextColor(b.token),
		})
	}
	return append(entries, LegendEntry{
		Token:     NoData,
		Label:     NoDataLabel,
		Color:     p.Color(NoData),
		TextColor: p.TextColor(NoData),
	})
}
