package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the operator declines a required prompt.
var ErrCancelled = errors.New("run cancelled by operator")

// ErrEmptyResult is returned when nothing is left to write.
// It halts the run before the output prompt; no file is produced.
var ErrEmptyResult = errors.New("empty result")

// ReadError reports that an input file could not be parsed as a table.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SchemaError reports required master columns that are absent.
type SchemaError struct {
	Path      string
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns in %s: %s (available: %s)",
		e.Path, strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// LookupSchemaWarning reports a region lookup table without the expected columns.
// It is non-fatal: region mapping is skipped and every country maps to Unknown.
type LookupSchemaWarning struct {
	Path    string
	Missing []string
}

func (e *LookupSchemaWarning) Error() string {
	return fmt.Sprintf("lookup columns missing in %s: %s; region mapping will be skipped",
		e.Path, strings.Join(e.Missing, ", "))
}

// WriteError reports that the output file could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Empty result messages, one per stage that can run dry.
const (
	msgNoDecades = "no rows remain after computing decades within the valid range"
	msgNoGroups  = "no rows produced after grouping"
)

var (
	errNoDecades = fmt.Errorf("%w: %s", ErrEmptyResult, msgNoDecades)
	errNoGroups  = fmt.Errorf("%w: %s", ErrEmptyResult, msgNoGroups)
)
