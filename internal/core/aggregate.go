package core

import "sort"

// groupKey is the 4-tuple rows are grouped by.
// Empty components are valid keys; nothing is dropped for being blank.
type groupKey struct {
	region  string
	country string
	decade  int
	medium  string
}

// Aggregate counts derived records per (region, country, decade, medium group).
// Rows come back sorted by region, country, decade, then medium group.
func Aggregate(records []DerivedRecord) []AggregateRow {
	counts := make(map[groupKey]int)
	for _, r := range records {
		counts[groupKey{r.Region, r.Country, r.Decade, r.MediumGroup}]++
	}

	rows := make([]AggregateRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, AggregateRow{
			Region:      k.region,
			Country:     k.country,
			Decade:      k.decade,
			MediumGroup: k.medium,
			NObjects:    n,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Decade != b.Decade {
			return a.Decade < b.Decade
		}
		return a.MediumGroup < b.MediumGroup
	})

	return rows
}

// TotalObjects sums NObjects over rows.
func TotalObjects(rows []AggregateRow) int {
	total := 0
	for _, r := range rows {
		total += r.NObjects
	}
	return total
}
