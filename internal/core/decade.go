package core

import "math"

// DecadeBounds is the inclusive range of decades kept in the summary.
type DecadeBounds struct {
	Min int
	Max int
}

// DefaultDecadeBounds covers the collection's dated holdings.
var DefaultDecadeBounds = DecadeBounds{Min: 1400, Max: 2020}

// Decade derives the creation decade from raw start and end years.
// The end year is used only when the start year is missing or unparsable.
// Returns false when no year parses or the decade falls outside the bounds.
func (b DecadeBounds) Decade(start, end string) (int, bool) {
	year, ok := ParseNumber(start)
	if !ok {
		year, ok = ParseNumber(end)
	}
	if !ok {
		return 0, false
	}

	d := math.Floor(year/10) * 10
	if d < float64(b.Min) || d > float64(b.Max) {
		return 0, false
	}
	return int(d), true
}

