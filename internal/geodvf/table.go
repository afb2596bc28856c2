package geodvf

import (
	"strconv"
	"strings"
)

// Geo DVF column names used outside of plain tabular access.
const (
	ColumnMutationID = "id_mutation"
	ColumnPrice      = "valeur_fonciere"
	ColumnLatitude   = "latitude"
	ColumnLongitude  = "longitude"
)

// Table is an in-memory tabular view of one or more Geo DVF files.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			if _, dup := t.index[c]; !dup {
				t.index[c] = i
			}
		}
	}
	i, ok := t.index[name]
	return i, ok
}

// Value returns the named cell of a row, or "" when the column or cell is missing.
func (t *Table) Value(row int, name string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	i, ok := t.Column(name)
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Float parses the named cell of a row as a number.
func (t *Table) Float(row int, name string) (float64, bool) {
	v := strings.TrimSpace(t.Value(row, name))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Append adds the rows of other. Columns are taken from the first
// non-empty table; other's columns are assumed to match.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}
	if len(t.Columns) == 0 {
		t.Columns = append([]string{}, other.Columns...)
		t.index = nil
	}
	t.Rows = append(t.Rows, other.Rows...)
}
