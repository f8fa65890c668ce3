package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls how delimited files are parsed.
type LoadOptions struct {
	// Delimiter separates fields. Zero means ',' (or '\t' for .tsv files).
	Delimiter rune
}

// delimiterFor picks the delimiter for a file name.
func (o LoadOptions) delimiterFor(name string) rune {
	if o.Delimiter != 0 && o.Delimiter != ',' {
		return o.Delimiter
	}
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	return ','
}

// LoadTable reads the delimited file at path.
// Any failure is returned as a *ReadError carrying the path.
func LoadTable(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	return ReadTable(f, path, opts)
}

// ReadTable parses a delimited stream. name is used for error messages
// and for picking the delimiter by extension.
func ReadTable(r io.Reader, name string, opts LoadOptions) (*Table, error) {
	counter := &countingReader{r: r}

	cr := csv.NewReader(newInputReader(counter))
	cr.Comma = opts.delimiterFor(name)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF || (err == nil && isEmptyRow(header)) {
		return nil, &ReadError{Path: name, Err: errors.New("empty file: no columns to parse")}
	}
	if err != nil {
		return nil, &ReadError{Path: name, Err: parseErr(err)}
	}

	var rows [][]string
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReadError{Path: name, Err: parseErr(err)}
		}
		if isEmptyRow(row) {
			continue
		}
		if len(row) > len(header) {
			// Line numbers are 1-indexed and count the header.
			return nil, &ReadError{
				Path: name,
				Err:  fmt.Errorf("invalid csv: line %d has %d fields, header has %d", line, len(row), len(header)),
			}
		}
		rows = append(rows, row)
	}

	t := NewTable(name, header, rows)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("table loaded",
			"name", name,
			"bytes", counter.n,
			"columns", len(t.Header),
			"rows", t.Len(),
			"kinds", t.Kinds(),
		)
	}

	return t, nil
}

// parseErr marks csv syntax errors; I/O errors pass through unchanged.
func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("invalid csv: %w", err)
	}
	return err
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
