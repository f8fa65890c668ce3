package core

import (
	"strings"
)

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// ColumnKind is the inferred type of a table column.
type ColumnKind int

const (
	KindEmpty ColumnKind = iota
	KindNumeric
	KindText
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Table is a parsed delimited file: a header row and data rows.
// Cells are kept as text; numeric access goes through ParseNumber.
type Table struct {
	Name   string // path or upload name, used in error messages
	Header []string
	Rows   [][]string

	index HeaderIndex
}

// NewTable builds a Table and its header index.
func NewTable(name string, header []string, rows [][]string) *Table {
	clean := make([]string, len(header))
	for i, h := range header {
		clean[i] = CleanCell(h)
	}
	return &Table{
		Name:   name,
		Header: clean,
		Rows:   rows,
		index:  MakeHeaderIndex(clean),
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the column exists (case-insensitive).
func (t *Table) HasColumn(name string) bool {
	if name == "" {
		return false
	}
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// Missing returns the names from cols that are not present in the header.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Cell returns the cleaned value at row i for the named column.
// Absent columns and short rows read as empty.
func (t *Table) Cell(i int, column string) string {
	return CleanCell(t.Raw(i, column))
}

// Raw returns the unmodified value at row i for the named column.
// Absent columns and short rows read as empty.
func (t *Table) Raw(i int, column string) string {
	if column == "" {
		return ""
	}
	pos, ok := t.index[strings.ToLower(column)]
	if !ok || i < 0 || i >= len(t.Rows) || pos >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][pos]
}

// Kind infers the column type from its non-empty cells.
// A column is numeric only if every non-empty cell parses as a number.
func (t *Table) Kind(column string) ColumnKind {
	if !t.HasColumn(column) {
		return KindEmpty
	}

	kind := KindEmpty
	for i := range t.Rows {
		v := t.Cell(i, column)
		if v == "" {
			continue
		}
		if _, ok := ParseNumber(v); !ok {
			return KindText
		}
		kind = KindNumeric
	}
	return kind
}

// Kinds returns the inferred kind of every header column.
func (t *Table) Kinds() map[string]ColumnKind {
	kinds := make(map[string]ColumnKind, len(t.Header))
	for _, h := range t.Header {
		if h == "" {
			continue
		}
		kinds[h] = t.Kind(h)
	}
	return kinds
}
