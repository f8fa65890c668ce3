package core

import "sort"

// RegionMap resolves a country to its region.
// It is built once per run and never modified afterwards.
type RegionMap struct {
	regions map[string]string
}

// Region returns the region for country, or Unknown if it has none.
func (m RegionMap) Region(country string) string {
	if r, ok := m.regions[country]; ok {
		return r
	}
	return Unknown
}

// Len returns the number of countries with a resolved region.
func (m RegionMap) Len() int {
	return len(m.regions)
}

// ResolveRegions builds the country→region mapping from a lookup table.
//
// A nil table yields an empty map. A table missing either expected column
// yields an empty map and a *LookupSchemaWarning, which callers should
// surface and otherwise ignore.
//
// Each country gets its most frequent region. Ties go to the
// lexicographically smallest region so the result is deterministic.
func ResolveRegions(lookup *Table, cols LookupColumns) (RegionMap, error) {
	if lookup == nil {
		return RegionMap{}, nil
	}

	if missing := lookup.Missing(cols.Country, cols.Region); len(missing) > 0 {
		return RegionMap{}, &LookupSchemaWarning{Path: lookup.Name, Missing: missing}
	}

	counts := make(map[string]map[string]int)
	for i := range lookup.Rows {
		country := lookup.Cell(i, cols.Country)
		region := lookup.Cell(i, cols.Region)
		if country == "" || region == "" {
			continue
		}
		if counts[country] == nil {
			counts[country] = make(map[string]int)
		}
		counts[country][region]++
	}

	regions := make(map[string]string, len(counts))
	for country, byRegion := range counts {
		regions[country] = modeOf(byRegion)
	}

	return RegionMap{regions: regions}, nil
}

// modeOf returns the key with the highest count, smallest key on ties.
func modeOf(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestN := 0
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}
