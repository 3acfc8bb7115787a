package table

import (
	"fmt"
	"strings"
)

// Table is an in-memory delimited dataset: an ordered header plus row-major
// string cells. Cells are kept as raw strings; emptiness and the common NA
// spellings are treated as missing (see IsMissing). Rows are padded to the
// header width at construction time by the loader, but accessors still guard
// against short rows since tables can be built by hand in tests.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given header.
func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NAN":  {},
	"<NA>": {},
	"NULL": {},
	"NONE": {},
}

// IsMissing reports whether a cell value counts as a missing observation.
// Source files mix empty fields with the textual NA spellings that upstream
// tools emit when re-exporting partially processed data.
func IsMissing(v string) bool {
	_, ok := missingMarkers[strings.ToUpper(strings.TrimSpace(v))]
	return ok
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Cell returns the value at (row, col), or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if col < len(t.Rows[row]) {
		return t.Rows[row][col]
	}
	return ""
}

// SetCell writes a value, extending a short row if needed.
func (t *Table) SetCell(row, col int, v string) {
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = v
}

// Distinct returns the non-missing values of a column in order of first
// appearance.
func (t *Table) Distinct(col int) []string {
	seen := make(map[string]struct{})
	var out []string
	for r := range t.Rows {
		v := t.Cell(r, col)
		if IsMissing(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// MissingRatio returns the fraction of rows whose value in the column is
// missing. An empty table counts as fully missing.
func (t *Table) MissingRatio(col int) float64 {
	if len(t.Rows) == 0 {
		return 1
	}
	miss := 0
	for r := range t.Rows {
		if IsMissing(t.Cell(r, col)) {
			miss++
		}
	}
	return float64(miss) / float64(len(t.Rows))
}

// RenameColumn renames a column in place. Renaming onto an existing name is
// rejected so two source columns never silently collapse into one.
func (t *Table) RenameColumn(from, to string) error {
	if from == to {
		return nil
	}
	if t.HasColumn(to) {
		return fmt.Errorf("rename %s: column %s already exists", from, to)
	}
	i := t.ColumnIndex(from)
	if i < 0 {
		return fmt.Errorf("rename %s: no such column", from)
	}
	t.Columns[i] = to
	return nil
}

// DropColumns removes the named columns and their cells.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[int]struct{}, len(names))
	for _, n := range names {
		if i := t.ColumnIndex(n); i >= 0 {
			drop[i] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return
	}
	keep := make([]int, 0, len(t.Columns)-len(drop))
	cols := make([]string, 0, len(t.Columns)-len(drop))
	for i, c := range t.Columns {
		if _, ok := drop[i]; !ok {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	for r, row := range t.Rows {
		nr := make([]string, len(keep))
		for j, i := range keep {
			if i < len(row) {
				nr[j] = row[i]
			}
		}
		t.Rows[r] = nr
	}
	t.Columns = cols
}

// Dedupe removes rows that are byte-identical to an earlier row across every
// column and returns the number removed.
func (t *Table) Dedupe() int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	removed := 0
	for r := range t.Rows {
		key := t.rowKey(r)
		if _, ok := seen[key]; ok {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, t.Rows[r])
	}
	t.Rows = kept
	return removed
}

func (t *Table) rowKey(r int) string {
	var b strings.Builder
	for c := range t.Columns {
		b.WriteString(t.Cell(r, c))
		b.WriteByte(0x1f) // unit separator, cannot appear in CSV cells we read
	}
	return b.String()
}

// Column is a materialized column used as a side buffer for derived fields.
type Column struct {
	Name  string
	Cells []string
}

// AppendColumns merges side-buffer columns into the table in one operation.
// Every buffer must have exactly one cell per row.
func (t *Table) AppendColumns(cols ...Column) error {
	for _, c := range cols {
		if len(c.Cells) != len(t.Rows) {
			return fmt.Errorf("append %s: %d cells for %d rows", c.Name, len(c.Cells), len(t.Rows))
		}
		if t.HasColumn(c.Name) {
			return fmt.Errorf("append %s: column already exists", c.Name)
		}
	}
	for _, c := range cols {
		t.Columns = append(t.Columns, c.Name)
		for r := range t.Rows {
			t.SetCell(r, len(t.Columns)-1, c.Cells[r])
		}
	}
	return nil
}

// Slice returns a view over rows [lo, hi) sharing row storage with t.
// The header is copied so later column operations on the view cannot
// clobber the parent. Used for chunked processing.
func (t *Table) Slice(lo, hi int) *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols, Rows: t.Rows[lo:hi]}
}

// Concat stacks tables on the columns they all share, in the column order of
// the first table. Values from columns absent in a later table come through
// as missing. Returns nil for no inputs.
func Concat(tables ...*Table) *Table {
	if len(tables) == 0 {
		return nil
	}
	shared := make([]string, 0, len(tables[0].Columns))
	for _, c := range tables[0].Columns {
		inAll := true
		for _, t := range tables[1:] {
			if !t.HasColumn(c) {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, c)
		}
	}
	out := New(shared)
	for _, t := range tables {
		idx := make([]int, len(shared))
		for j, c := range shared {
			idx[j] = t.ColumnIndex(c)
		}
		for r := range t.Rows {
			row := make([]string, len(shared))
			for j, i := range idx {
				row[j] = t.Cell(r, i)
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
