package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/museumcounts/internal/logging"
	"github.com/google/uuid"
)

// Service runs the counts pipeline against an Operator and records the outcome.
type Service struct {
	pipeline   *Pipeline
	load       LoadOptions
	outputName string

	history   RunHistory
	publisher Publisher
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithHistory records every run summary in h.
func WithHistory(h RunHistory) Option {
	return func(s *Service) { s.history = h }
}

// WithPublisher publishes the rows of every successful run.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLoadOptions sets how input files are parsed and the output delimiter.
func WithLoadOptions(o LoadOptions) Option {
	return func(s *Service) { s.load = o }
}

// WithOutputName sets the file name suggested at the output prompt.
func WithOutputName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.outputName = name
		}
	}
}

// NewService creates a Service around pipeline.
func NewService(pipeline *Pipeline, opts ...Option) *Service {
	s := &Service{
		pipeline:   pipeline,
		outputName: DefaultOutputName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pipeline returns the pipeline the service runs.
func (s *Service) Pipeline() *Pipeline {
	return s.pipeline
}

// OutputName returns the file name suggested at the output prompt.
func (s *Service) OutputName() string {
	return s.outputName
}

// History returns the configured run history, or nil.
func (s *Service) History() RunHistory {
	return s.history
}

// Run drives one complete run:
//
//  1. Ask for the master table (declining aborts with ErrCancelled)
//  2. Ask for the optional region lookup table (declining skips region mapping)
//  3. Load both tables and check the master columns
//  4. Transform; an empty result halts before the output prompt
//  5. Ask for the output path (declining aborts with ErrCancelled)
//  6. Write the summary and report the row count
//
// Every failure is notified to the operator before it is returned. The
// returned summary is never nil.
func (s *Service) Run(ctx context.Context, op Operator) (*RunSummary, error) {
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	run := &RunSummary{
		RunID:     runID,
		StartedAt: s.now().UTC(),
	}

	err := s.run(ctx, op, run)

	run.Duration = s.now().UTC().Sub(run.StartedAt)
	switch {
	case err == nil:
		run.Status = RunSucceeded
	case errors.Is(err, ErrCancelled):
		run.Status = RunCancelled
	case errors.Is(err, ErrEmptyResult):
		run.Status = RunEmpty
	default:
		run.Status = RunFailed
	}
	if err != nil {
		run.Error = err.Error()
	}

	logger.Info("run finished",
		"status", run.Status,
		"records_read", run.RecordsRead,
		"records_kept", run.RecordsKept,
		"groups", run.Groups,
		"duration_ms", run.Duration.Milliseconds(),
	)

	if s.history != nil {
		if herr := s.history.RecordRun(ctx, *run); herr != nil {
			logger.Warn("failed to record run", "error", herr)
		}
	}

	return run, err
}

func (s *Service) run(ctx context.Context, op Operator, run *RunSummary) error {
	logger := logging.FromContext(ctx)

	// Step 1: master objects
	masterPath, ok := s.requestInput(ctx, op, PurposeMaster)
	if !ok {
		op.Notify(ctx, NoticeWarning, "Cancelled", "No master file selected.")
		return fmt.Errorf("master file: %w", ErrCancelled)
	}
	run.MasterPath = masterPath

	// Step 2: optional region lookup
	lookupPath, useLookup := s.requestInput(ctx, op, PurposeLookup)
	if useLookup {
		run.LookupPath = lookupPath
	} else {
		logger.Info("region lookup skipped")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("operation cancelled: %w", err)
	}

	master, err := LoadTable(masterPath, s.load)
	if err != nil {
		op.Notify(ctx, NoticeError, "Error", fmt.Sprintf("Could not read master CSV:\n%v", err))
		return err
	}
	run.RecordsRead = master.Len()
	logger.Info("master loaded", "path", masterPath, "rows", master.Len())

	var lookup *Table
	if useLookup {
		lookup, err = LoadTable(lookupPath, s.load)
		if err != nil {
			op.Notify(ctx, NoticeError, "Error", fmt.Sprintf("Could not read lookup CSV:\n%v", err))
			return err
		}
		logger.Info("lookup loaded", "path", lookupPath, "rows", lookup.Len())
	}

	res, err := s.pipeline.Transform(master, lookup)
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		op.Notify(ctx, NoticeError, "Missing columns in master file",
			fmt.Sprintf("Missing: %v\nAvailable: %s", schemaErr.Missing, strings.Join(schemaErr.Available, ", ")))
		return err
	}
	if res != nil {
		run.RecordsKept = res.RecordsKept
		run.Warnings = res.Warnings
		for _, w := range res.Warnings {
			op.Notify(ctx, NoticeWarning, "Lookup columns missing", w)
		}
	}
	if err != nil {
		if errors.Is(err, ErrEmptyResult) {
			op.Notify(ctx, NoticeWarning, "No data", emptyNotice(err))
		} else {
			op.Notify(ctx, NoticeError, "Error", err.Error())
		}
		return err
	}
	run.Groups = len(res.Rows)
	run.Rows = res.Rows

	logger.Info("aggregation complete",
		"records_dropped", res.RecordsDropped,
		"regions_mapped", res.RegionsMapped,
		"groups", len(res.Rows),
		"objects", TotalObjects(res.Rows),
	)

	// Step 3: output
	title, msg := PurposeOutput.Prompt()
	op.Notify(ctx, NoticeInfo, title, msg)
	outPath, ok := op.RequestOutputPath(ctx, PurposeOutput, s.outputName)
	if !ok {
		op.Notify(ctx, NoticeWarning, "Cancelled", "No output path selected.")
		return fmt.Errorf("output path: %w", ErrCancelled)
	}
	run.OutputPath = outPath

	if err := WriteAggregates(outPath, res.Rows, s.load.Delimiter); err != nil {
		op.Notify(ctx, NoticeError, "Error", fmt.Sprintf("Could not write CSV:\n%v", err))
		return err
	}

	if s.publisher != nil {
		if perr := s.publisher.Publish(ctx, run.RunID, res.Rows); perr != nil {
			logger.Warn("publish failed", "error", perr)
			op.Notify(ctx, NoticeWarning, "Publish failed",
				fmt.Sprintf("The CSV was written but the rows could not be published:\n%v", perr))
		} else {
			logger.Info("rows published", "rows", len(res.Rows))
		}
	}

	op.Notify(ctx, NoticeInfo, "Done",
		fmt.Sprintf("Wrote %s rows to:\n%s", formatCount(len(res.Rows)), outPath))

	return nil
}

// requestInput shows the step text for purpose and asks for a path.
func (s *Service) requestInput(ctx context.Context, op Operator, purpose Purpose) (string, bool) {
	title, msg := purpose.Prompt()
	op.Notify(ctx, NoticeInfo, title, msg)

	path, ok := op.RequestInputPath(ctx, purpose)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

// emptyNotice turns an ErrEmptyResult chain into operator text.
func emptyNotice(err error) string {
	if errors.Is(err, errNoGroups) {
		return "No rows produced after grouping."
	}
	return "No rows remain after computing decades within the valid range."
}
