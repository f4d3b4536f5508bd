// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package turnout

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

var ErrDuplicateKey = errors.New("duplicate turnout record key")

type key struct {
	region   string
	period   string
	category string
}

type regionPeriod struct {
	region string
	period string
}

// Index is a read-only lookup structure over one dataset
type Index struct {
	shape      Shape
	records    map[key]Record
	categories map[regionPeriod][]string

	periods    []string
	regions    []string
	categoryOf []string
	skipped    int
}

// Build normalizes raw records and indexes them by (region, period, category).
// Records without a region or period are skipped; a repeated key is an error.
func Build(raws []RawRecord, shape Shape) (*Index, error) {
	idx := &Index{
		shape:      shape,
		records:    make(map[key]Record, len(raws)),
		categories: make(map[regionPeriod][]string),
	}

	periods := make(map[string]bool)
	regions := make(map[string]bool)
	cats := make(map[string]bool)

	for i, raw := range raws {
		rec := shape.Normalize(raw)
		if rec.RegionID == "" || rec.Period == "" {
			idx.skipped++
			slog.Warn("skipping turnout record without key", "position", i)
			continue
		}

		k := key{region: rec.RegionID, period: rec.Period, category: rec.Category}
		if _, exists := idx.records[k]; exists {
			return nil, fmt.Errorf("%w: region %q period %q category %q",
				ErrDuplicateKey, k.region, k.period, k.category)
		}
		idx.records[k] = rec

		rp := regionPeriod{region: k.region, period: k.period}
		idx.categories[rp] = append(idx.categories[rp], k.category)

		periods[rec.Period] = true
		regions[rec.RegionID] = true
		if rec.Category != "" {
			cats[rec.Category] = true
		}
	}

	for rp := range idx.categories {
		sort.Strings(idx.categories[rp])
	}

	idx.periods = sortedPeriods(periods)
	idx.regions = sortedKeys(regions)
	idx.categoryOf = sortedKeys(cats)

	slog.Info("turnout index built",
		"records", len(idx.records),
		"skipped", idx.skipped,
		"periods", len(idx.periods),
		"regions", len(idx.regions),
	)
	return idx, nil
}

// Lookup returns the record for a key. A missing record is reported with
// ok == false, never an error. An empty category, or a dataset without a
// category axis, matches any category ("General" preferred).
func (i *Index) Lookup(region, period, category string) (Record, bool) {
	region = strings.TrimSpace(region)
	period = strings.TrimSpace(period)
	category = strings.TrimSpace(category)
	if !i.HasCategories() {
		category = ""
	}

	if category != "" {
		if rec, ok := i.records[key{region, period, category}]; ok {
			return rec, true
		}
		// records that carry no category match any requested one
		rec, ok := i.records[key{region, period, ""}]
		return rec, ok
	}

	cats := i.categories[regionPeriod{region, period}]
	if len(cats) == 0 {
		return Record{}, false
	}
	chosen := cats[0]
	for _, c := range cats {
		if c == CategoryGeneral {
			chosen = c
			break
		}
	}
	return i.records[key{region, period, chosen}], true
}

// HasCategories reports whether the dataset has an election-type axis
func (i *Index) HasCategories() bool {
	return i.shape.Category != ""
}

// Len returns the number of indexed records
func (i *Index) Len() int {
	return len(i.records)
}

// Skipped returns how many raw records had no usable key
func (i *Index) Skipped() int {
	return i.skipped
}

// Periods returns the distinct periods, newest first
func (i *Index) Periods() []string {
	return append([]string(nil), i.periods...)
}

// Regions returns the distinct region ids in lexical order
func (i *Index) Regions() []string {
	return append([]string(nil), i.regions...)
}

// Categories returns the distinct categories in lexical order
func (i *Index) Categories() []string {
	return append([]string(nil), i.categoryOf...)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedPeriods(set map[string]bool) []string {
	out := sortedKeys(set)
	sort.SliceStable(out, func(a, b int) bool {
		na, errA := strconv.Atoi(out[a])
		nb, errB := strconv.Atoi(out[b])
		if errA == nil && errB == nil {
			return na > nb
		}
		return out[a] > out[b]
	})
	return out
}
