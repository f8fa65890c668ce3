package core

import (
	"errors"
	"strings"
)

// Pipeline turns a master table (and optional lookup table) into the summary rows.
// It holds no state between calls and is safe for concurrent use.
type Pipeline struct {
	Columns    Columns
	Bounds     DecadeBounds
	Classifier Classifier
}

// NewPipeline returns a Pipeline with the default decade bounds and classifier.
func NewPipeline(cols Columns) *Pipeline {
	return &Pipeline{
		Columns:    cols,
		Bounds:     DefaultDecadeBounds,
		Classifier: DefaultClassifier,
	}
}

// CheckMaster verifies that the master table has every required column.
func (p *Pipeline) CheckMaster(master *Table) error {
	missing := master.Missing(p.Columns.Master.Required()...)
	if len(missing) == 0 {
		return nil
	}
	return &SchemaError{
		Path:      master.Name,
		Missing:   missing,
		Available: master.Header,
	}
}

// Transform runs region resolution, decade filtering, classification and
// aggregation. lookup may be nil.
//
// A *SchemaError is returned when the master table lacks required columns.
// ErrEmptyResult is returned (wrapped) when no record has a usable decade.
// A lookup table without the expected columns only adds a warning to the result.
func (p *Pipeline) Transform(master, lookup *Table) (*Result, error) {
	if err := p.CheckMaster(master); err != nil {
		return nil, err
	}

	res := &Result{RecordsRead: master.Len()}

	regions, err := ResolveRegions(lookup, p.Columns.Lookup)
	if err != nil {
		var warn *LookupSchemaWarning
		if !errors.As(err, &warn) {
			return nil, err
		}
		res.Warnings = append(res.Warnings, warn.Error())
	}
	res.RegionsMapped = regions.Len()

	derived := make([]DerivedRecord, 0, master.Len())
	for i := range master.Rows {
		rec := p.record(master, i)
		d, ok := p.Derive(rec, regions)
		if !ok {
			res.RecordsDropped++
			continue
		}
		derived = append(derived, d)
	}
	res.RecordsKept = len(derived)

	if len(derived) == 0 {
		return res, errNoDecades
	}

	res.Rows = Aggregate(derived)
	if len(res.Rows) == 0 {
		return res, errNoGroups
	}

	return res, nil
}

// Derive normalizes a single record. Returns false when the record has no
// decade inside the bounds.
func (p *Pipeline) Derive(rec ObjectRecord, regions RegionMap) (DerivedRecord, bool) {
	decade, ok := p.Bounds.Decade(rec.StartYear, rec.EndYear)
	if !ok {
		return DerivedRecord{}, false
	}

	// Blank countries never take a region, even one mapped to "Unknown".
	country := strings.TrimSpace(rec.Country)
	region := Unknown
	if country == "" {
		country = Unknown
	} else {
		region = regions.Region(country)
	}

	return DerivedRecord{
		Region:      region,
		Country:     country,
		Decade:      decade,
		MediumGroup: p.Classifier.Classify(rec.Classification, rec.Medium),
	}, true
}

// record reads row i of the master table. Optional columns that are
// absent read as empty text. Classification and medium stay raw so keyword
// spacing survives.
func (p *Pipeline) record(master *Table, i int) ObjectRecord {
	cols := p.Columns.Master
	return ObjectRecord{
		Country:        master.Cell(i, cols.Country),
		StartYear:      master.Cell(i, cols.StartYear),
		EndYear:        master.Cell(i, cols.EndYear),
		Classification: master.Raw(i, cols.Classification),
		Medium:         master.Raw(i, cols.Medium),
	}
}
