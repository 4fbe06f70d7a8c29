package dataset

import (
	"math"
	"strconv"
	"strings"

	"datadash/domain/core"
)

// missingTokens are cell values treated as absent, in addition to the empty string.
var missingTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {},
	"#N/A N/A": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return true
	}
	_, ok := missingTokens[cell]
	return ok
}

// ParseNumber parses a non-missing cell as a float. Integers, decimals,
// exponents and infinities are accepted.
func ParseNumber(cell string) (float64, bool) {
	if IsMissing(cell) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Column is a named sequence of raw cells. Cells are shared with the owning
// Table and must be treated as read-only.
type Column struct {
	Name  string
	Cells []string
}

// Len returns the number of cells.
func (c Column) Len() int {
	return len(c.Cells)
}

// Floats returns the cells as numbers, NaN for missing or non-numeric cells.
func (c Column) Floats() []float64 {
	out := make([]float64, len(c.Cells))
	for i, cell := range c.Cells {
		if v, ok := ParseNumber(cell); ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Present returns the non-missing cells, trimmed, in row order.
func (c Column) Present() []string {
	out := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !IsMissing(cell) {
			out = append(out, strings.TrimSpace(cell))
		}
	}
	return out
}

// MissingCount returns how many cells are missing.
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if IsMissing(cell) {
			n++
		}
	}
	return n
}

// Table is an in-memory dataset: ordered, uniquely named columns of equal
// length. A Table is immutable once built; a new upload produces a new Table.
type Table struct {
	Source string

	// Truncated is set when the reader stopped at its row limit before the
	// end of the input.
	Truncated bool

	columns []Column
	index   map[string]int
	rows    int
}

// NewTable validates and assembles a table. Column names are trimmed.
func NewTable(source string, columns []Column) (*Table, error) {
	t := &Table{
		Source:  source,
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return nil, core.NewParseError("column %d has an empty name", i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, core.NewParseError("duplicate column name %q", name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, core.NewParseError("column %q has %d values, expected %d", name, len(col.Cells), t.rows)
		}
		t.index[name] = i
		t.columns[i] = Column{Name: name, Cells: col.Cells}
	}

	return t, nil
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Columns returns the columns in table order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Row returns the raw cells of row i in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Cells[i]
	}
	return row
}

// Head returns up to n leading rows. n <= 0 returns no rows.
func (t *Table) Head(n int) [][]string {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return rows
}
