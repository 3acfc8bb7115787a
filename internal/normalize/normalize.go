// Package normalize aligns a raw table to the dictionary's canonical schema:
// column renames via a fixed alias table, drops of unknown and mostly-empty
// columns, row dedupe, and textual cell cleanup. Every per-column step is
// isolated: a fault leaves that column unmodified and is recorded instead of
// aborting the table.
package normalize

import (
	"fmt"
	"strings"

	"github.com/epidados/sragpipe/internal/dictionary"
	"github.com/epidados/sragpipe/internal/table"
)

// DefaultNullRatio is the missing-value fraction at or above which a column
// is dropped.
const DefaultNullRatio = 0.95

// Options tunes normalization.
type Options struct {
	NullRatioThreshold float64
}

// aliases maps source-column spellings that drifted across years to the
// dictionary's canonical names. Keys are canonical-form (upper, no spaces).
var aliases = map[string]string{
	"FAB_COV_1":  "FAB_COV1",
	"FAB_COV_2":  "FAB_COV2",
	"FAB_COVREF": "FAB_COVRF",
}

// ColumnFault records a per-column failure that was contained.
type ColumnFault struct {
	Column string
	Op     string
	Err    string
}

// Result carries the normalized table and what happened to each column.
type Result struct {
	Table            *table.Table
	Renamed          map[string]string
	DroppedUnknown   []string // not present in the dictionary
	DroppedNullRatio []string // missing fraction >= threshold
	DuplicateRows    int
	Faults           []ColumnFault
}

func canonKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Normalize aligns t to the dictionary in place and reports the actions
// taken. The threshold test is inclusive: a column exactly at the threshold
// is dropped.
func Normalize(t *table.Table, dict *dictionary.Dictionary, opts Options) *Result {
	if opts.NullRatioThreshold <= 0 {
		opts.NullRatioThreshold = DefaultNullRatio
	}
	res := &Result{Table: t, Renamed: make(map[string]string)}

	// Canonical names, case- and whitespace-insensitive, with the fixed
	// alias table applied first.
	canonical := make(map[string]string, dict.Len())
	for _, name := range dict.Names() {
		canonical[canonKey(name)] = name
	}
	for _, col := range append([]string(nil), t.Columns...) {
		key := canonKey(col)
		if a, ok := aliases[key]; ok {
			key = canonKey(a)
		}
		want, ok := canonical[key]
		if !ok || want == col {
			continue
		}
		if err := t.RenameColumn(col, want); err != nil {
			res.Faults = append(res.Faults, ColumnFault{Column: col, Op: "rename", Err: err.Error()})
			continue
		}
		res.Renamed[col] = want
	}

	// Drop columns the dictionary does not know.
	for _, col := range t.Columns {
		if !dict.Has(col) {
			res.DroppedUnknown = append(res.DroppedUnknown, col)
		}
	}
	t.DropColumns(res.DroppedUnknown...)

	// Drop columns that are almost entirely missing.
	for _, col := range t.Columns {
		if t.MissingRatio(t.ColumnIndex(col)) >= opts.NullRatioThreshold {
			res.DroppedNullRatio = append(res.DroppedNullRatio, col)
		}
	}
	t.DropColumns(res.DroppedNullRatio...)

	res.DuplicateRows = t.Dedupe()

	// Trim and upper-case cells column by column so one bad column cannot
	// take the rest down.
	for ci, col := range t.Columns {
		if err := cleanColumn(t, ci); err != nil {
			res.Faults = append(res.Faults, ColumnFault{Column: col, Op: "clean", Err: err.Error()})
		}
	}
	return res
}

func cleanColumn(t *table.Table, ci int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	for r := range t.Rows {
		v := t.Cell(r, ci)
		cleaned := strings.ToUpper(strings.TrimSpace(v))
		if cleaned != v {
			t.SetCell(r, ci, cleaned)
		}
	}
	return nil
}
