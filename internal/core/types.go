package core

import "time"

// Unknown is the placeholder used for a missing region or country.
const Unknown = "Unknown"

// DefaultOutputName is the file name suggested to the operator for the summary table.
const DefaultOutputName = "counts_by_country_decade_medium.csv"

// OutputHeader is the column order of the summary table.
var OutputHeader = []string{"region", "country", "decade", "medium_group", "n_objects"}

// Columns names the input columns the pipeline reads.
// It is built once at the boundary (see config) and passed in explicitly.
type Columns struct {
	Master MasterColumns
	Lookup LookupColumns
}

// MasterColumns are the column names of the master object table.
type MasterColumns struct {
	Country        string // required
	StartYear      string // required
	EndYear        string // required
	Classification string // optional
	Medium         string // optional
}

// Required returns the columns that must be present in the master table.
func (c MasterColumns) Required() []string {
	return []string{c.Country, c.StartYear, c.EndYear}
}

// LookupColumns are the column names of the country→region lookup table.
type LookupColumns struct {
	Country string
	Region  string
}

// DefaultColumns returns the column names produced by the museum data export.
func DefaultColumns() Columns {
	return Columns{
		Master: MasterColumns{
			Country:        "origin_country_std",
			StartYear:      "creation_start_year_std",
			EndYear:        "creation_end_year_std",
			Classification: "classification_std",
			Medium:         "medium_std",
		},
		Lookup: LookupColumns{
			Country: "origin_country",
			Region:  "region",
		},
	}
}

// ObjectRecord is a single row of the master table.
// Years are kept as raw text; the decade calculator does the parsing.
type ObjectRecord struct {
	Country        string
	StartYear      string
	EndYear        string
	Classification string
	Medium         string
}

// DerivedRecord is an ObjectRecord after normalization.
// Records without a computable decade never become a DerivedRecord.
type DerivedRecord struct {
	Region      string
	Country     string
	Decade      int
	MediumGroup string
}

// AggregateRow is one line of the summary table.
type AggregateRow struct {
	Region      string `json:"region"`
	Country     string `json:"country"`
	Decade      int    `json:"decade"`
	MediumGroup string `json:"medium_group"`
	NObjects    int    `json:"n_objects"`
}

// Result is the outcome of a transformation.
type Result struct {
	Rows           []AggregateRow
	RecordsRead    int      // rows in the master table
	RecordsKept    int      // rows with a decade inside the bounds
	RecordsDropped int      // rows without a usable decade
	RegionsMapped  int      // countries with a resolved region
	Warnings       []string // non-fatal conditions, e.g. lookup columns missing
}

// RunStatus is the final state of a run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunCancelled RunStatus = "cancelled"
	RunEmpty     RunStatus = "empty"
	RunFailed    RunStatus = "failed"
)

// RunSummary describes a single run for history and reporting.
type RunSummary struct {
	RunID       string         `json:"runId"`
	StartedAt   time.Time      `json:"startedAt"`
	Duration    time.Duration  `json:"duration"`
	Status      RunStatus      `json:"status"`
	MasterPath  string         `json:"masterPath,omitempty"`
	LookupPath  string         `json:"lookupPath,omitempty"`
	OutputPath  string         `json:"outputPath,omitempty"`
	RecordsRead int            `json:"recordsRead"`
	RecordsKept int            `json:"recordsKept"`
	Groups      int            `json:"groups"`
	Error       string         `json:"error,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	Rows        []AggregateRow `json:"-"`
}
