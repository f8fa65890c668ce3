package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// EncodeAggregates writes the header and one line per row to w.
func EncodeAggregates(w io.Writer, rows []AggregateRow, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}

	if err := cw.Write(OutputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			r.Region,
			r.Country,
			strconv.Itoa(r.Decade),
			r.MediumGroup,
			strconv.Itoa(r.NObjects),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteAggregates writes rows to path.
//
// Output goes to a temporary file in the same directory and is renamed into
// place once complete, so a failed write leaves no partial file behind.
// Failures are returned as *WriteError.
func WriteAggregates(path string, rows []AggregateRow, delim rune) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = EncodeAggregates(tmp, rows, delim); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
