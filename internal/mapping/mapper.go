// Package mapping translates categorical code values into their dictionary
// labels. It is the core of the pipeline: idempotent against already-mapped
// data, tolerant of mixed numeric representations, and isolated per field so
// one malformed column never aborts the batch.
package mapping

import (
	"fmt"
	"strings"

	"github.com/epidados/sragpipe/internal/dictionary"
	"github.com/epidados/sragpipe/internal/table"
)

// Outcome classifies what happened to one field.
type Outcome int

const (
	AlreadyMapped Outcome = iota // every distinct value was a label; nothing to do
	NewlyMapped                  // codes were translated
	Skipped                      // not in dictionary, or not a categorical kind
	Failed                       // contained fault while mapping the field
)

var outcomeNames = map[Outcome]string{
	AlreadyMapped: "already-mapped",
	NewlyMapped:   "newly-mapped",
	Skipped:       "skipped",
	Failed:        "failed",
}

func (o Outcome) String() string { return outcomeNames[o] }

// maxResidualSample caps how many unresolved values are kept per field.
const maxResidualSample = 10

// FieldResult is the per-field entry of the mapping report.
type FieldResult struct {
	Field      string
	Outcome    Outcome
	RowsMapped int      // rows whose value was replaced by a label
	ErrorRows  int      // rows left holding an unresolvable value
	Residual   []string // sample of unresolved distinct values
	Reason     string   // populated for Skipped and Failed
}

// Report aggregates per-field results in table column order. It is built
// during Apply and read-only afterwards.
type Report struct {
	Fields []FieldResult
}

// ByField returns the result for one field, if present.
func (r *Report) ByField(name string) (FieldResult, bool) {
	for _, f := range r.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldResult{}, false
}

// Counts returns the number of fields per outcome.
func (r *Report) Counts() map[Outcome]int {
	out := make(map[Outcome]int, 4)
	for _, f := range r.Fields {
		out[f.Outcome]++
	}
	return out
}

// coerce brings a cell into the canonical comparison form: surrounding
// whitespace trimmed and an integer-valued float's trailing ".0" stripped,
// so "1", " 1" and "1.0" all compare equal to code "1". Only the exact ".0"
// suffix is recognized; "01" is not equivalent to "1".
func coerce(v string) string {
	v = strings.TrimSpace(v)
	if s, ok := strings.CutSuffix(v, ".0"); ok && s != "" && isDigits(s) {
		return s
	}
	return v
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Apply translates every categorical and checkbox field of t in place and
// returns the report. Fields the dictionary does not cover, or covers with a
// non-categorical kind, are reported as skipped and left untouched.
func Apply(t *table.Table, dict *dictionary.Dictionary) *Report {
	rep := &Report{}
	for ci, col := range t.Columns {
		f, ok := dict.Field(col)
		if !ok {
			rep.Fields = append(rep.Fields, FieldResult{Field: col, Outcome: Skipped, Reason: "not in dictionary"})
			continue
		}
		if f.Kind != dictionary.Categorical && f.Kind != dictionary.Checkbox {
			rep.Fields = append(rep.Fields, FieldResult{Field: col, Outcome: Skipped, Reason: "kind " + f.Kind.String()})
			continue
		}
		rep.Fields = append(rep.Fields, mapField(t, ci, f))
	}
	return rep
}

// mapField runs the per-field procedure. Any panic is contained and turned
// into a Failed result; the column keeps whatever state it had.
func mapField(t *table.Table, ci int, f *dictionary.Field) (res FieldResult) {
	res = FieldResult{Field: f.Name}
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = Failed
			res.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	// Partition distinct values: anything that already equals a label needs
	// no work. When nothing else remains the field was mapped on an earlier
	// run and must not be touched again.
	hasCandidate := false
	for _, v := range t.Distinct(ci) {
		if !f.IsLabel(v) {
			hasCandidate = true
			break
		}
	}
	if !hasCandidate {
		res.Outcome = AlreadyMapped
		return res
	}

	marked := f.MarkedLabel()
	for r := range t.Rows {
		raw := t.Cell(r, ci)
		if table.IsMissing(raw) || f.IsLabel(raw) {
			continue
		}
		// Two equivalence rules, in order: exact match after trimming, then
		// the ".0"-stripped numeric form.
		cv := coerce(raw)
		label, ok := f.Label(strings.TrimSpace(raw))
		if !ok {
			label, ok = f.Label(cv)
		}
		if !ok && f.Kind == dictionary.Checkbox && cv == "1" {
			// Checkbox semantics: "1" always means marked, even when the
			// code map spells it differently.
			label, ok = marked, true
		}
		if ok {
			t.SetCell(r, ci, label)
			res.RowsMapped++
		}
	}

	// Anything still not a label is unresolved: counted, sampled, and left
	// in place. Dropping or erasing values is never this stage's call.
	residualSeen := make(map[string]struct{})
	for r := range t.Rows {
		v := t.Cell(r, ci)
		if table.IsMissing(v) || f.IsLabel(v) {
			continue
		}
		res.ErrorRows++
		if _, ok := residualSeen[v]; !ok {
			residualSeen[v] = struct{}{}
			if len(res.Residual) < maxResidualSample {
				res.Residual = append(res.Residual, v)
			}
		}
	}

	res.Outcome = NewlyMapped
	return res
}
