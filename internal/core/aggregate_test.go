package core

import (
	"reflect"
	"testing"
)

func TestAggregate(t *testing.T) {
	records := []DerivedRecord{
		{"Europe", "France", 1870, MediumPrints},
		{"Europe", "France", 1870, MediumPaintings},
		{Unknown, "Japan", 1630, MediumDecorativeArts},
		{"Europe", "France", 1870, MediumPaintings},
		{"Europe", "France", 1860, MediumPaintings},
		{"", "", 1500, ""},
	}

	got := Aggregate(records)

	want := []AggregateRow{
		{"", "", 1500, "", 1},
		{"Europe", "France", 1860, MediumPaintings, 1},
		{"Europe", "France", 1870, MediumPaintings, 2},
		{"Europe", "France", 1870, MediumPrints, 1},
		{Unknown, "Japan", 1630, MediumDecorativeArts, 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate() =\n%v\nwant\n%v", got, want)
	}
}

func TestAggregate_ConservesCountsAndKeys(t *testing.T) {
	countries := []string{"France", "Japan", "Peru"}
	groups := []string{MediumPrints, MediumOther, MediumSculpture, MediumTextiles}

	var records []DerivedRecord
	for i := 0; i < 500; i++ {
		records = append(records, DerivedRecord{
			Region:      "R" + countries[i%2],
			Country:     countries[i%len(countries)],
			Decade:      1400 + (i%7)*10,
			MediumGroup: groups[i%len(groups)],
		})
	}

	rows := Aggregate(records)

	if got := TotalObjects(rows); got != len(records) {
		t.Errorf("TotalObjects() = %d, want %d", got, len(records))
	}

	seen := make(map[groupKey]bool)
	for _, r := range rows {
		k := groupKey{r.Region, r.Country, r.Decade, r.MediumGroup}
		if seen[k] {
			t.Errorf("duplicate group %+v", k)
		}
		seen[k] = true
		if r.NObjects < 1 {
			t.Errorf("group %+v has count %d", k, r.NObjects)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	rows := Aggregate(nil)
	if rows == nil || len(rows) != 0 {
		t.Errorf("Aggregate(nil) = %#v, want empty non-nil slice", rows)
	}
	if TotalObjects(rows) != 0 {
		t.Errorf("TotalObjects(empty) = %d, want 0", TotalObjects(rows))
	}
}
