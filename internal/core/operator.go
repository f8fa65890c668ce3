package core

import "context"

// Purpose identifies what a requested path is for.
type Purpose string

const (
	PurposeMaster Purpose = "master"
	PurposeLookup Purpose = "region_lookup"
	PurposeOutput Purpose = "output"
)

// Prompt returns the step text shown to the operator before a path request.
func (p Purpose) Prompt() (title, message string) {
	switch p {
	case PurposeMaster:
		return "Step 1", "Select your master objects CSV (e.g. combinedMuseumObjects.csv)."
	case PurposeLookup:
		return "Step 2 (optional)", "Select the country to region lookup CSV (e.g. flows_country_to_museum.csv). " +
			"You may skip this if you don't want regions."
	case PurposeOutput:
		return "Step 3", "Choose where to save " + DefaultOutputName + "."
	default:
		return string(p), ""
	}
}

// NoticeKind is the severity of an operator notification.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Operator is the interactive surface a run talks to: a terminal, a set of
// command line flags, or an HTTP upload. Implementations decide how a path is
// obtained; ok=false means the operator declined.
type Operator interface {
	RequestInputPath(ctx context.Context, purpose Purpose) (path string, ok bool)
	RequestOutputPath(ctx context.Context, purpose Purpose, suggested string) (path string, ok bool)
	Notify(ctx context.Context, kind NoticeKind, title, message string)
}

// RunHistory stores run summaries.
type RunHistory interface {
	RecordRun(ctx context.Context, run RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// Publisher pushes the summary rows of a successful run to another system.
type Publisher interface {
	Publish(ctx context.Context, runID string, rows []AggregateRow) error
}
