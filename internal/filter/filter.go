// Package filter removes rows that violate validity constraints. Rules are
// pure predicates over already-derived and mapped fields; they only drop
// rows, never mutate the survivors.
package filter

import (
	"strconv"

	"github.com/epidados/sragpipe/internal/derive"
	"github.com/epidados/sragpipe/internal/table"
)

// DefaultICUDayCutoff is the ICU stay, in days, above which a row is treated
// as a data-entry error.
const DefaultICUDayCutoff = 160

// OutcomeColumn is the field a closed record must carry.
const OutcomeColumn = "EVOLUCAO"

// Rule keeps rows for which Keep returns true. A rule whose column is absent
// from the table keeps everything and reports zero removals.
type Rule struct {
	Name   string
	Column string
	Keep   func(value string) bool
}

// RuleReport accounts for one rule application.
type RuleReport struct {
	Rule    string
	Before  int
	Removed int
	After   int
}

// ICUStayRule drops rows whose ICU stay exceeds cutoff days. Missing or
// non-numeric stays are kept; implausibility requires an actual number.
func ICUStayRule(cutoff int) Rule {
	return Rule{
		Name:   "icu-stay-above-cutoff",
		Column: derive.ColICUStay,
		Keep: func(v string) bool {
			if table.IsMissing(v) {
				return true
			}
			days, err := strconv.Atoi(v)
			if err != nil {
				return true
			}
			return days <= cutoff
		},
	}
}

// MissingOutcomeRule drops rows with no outcome recorded.
func MissingOutcomeRule() Rule {
	return Rule{
		Name:   "missing-outcome",
		Column: OutcomeColumn,
		Keep:   func(v string) bool { return !table.IsMissing(v) },
	}
}

// Apply runs the rules in sequence against t, filtering in place, and
// returns one report per rule.
func Apply(t *table.Table, rules []Rule) []RuleReport {
	reports := make([]RuleReport, 0, len(rules))
	for _, rule := range rules {
		rep := RuleReport{Rule: rule.Name, Before: len(t.Rows)}
		ci := t.ColumnIndex(rule.Column)
		if ci >= 0 {
			kept := t.Rows[:0]
			for r := range t.Rows {
				if rule.Keep(t.Cell(r, ci)) {
					kept = append(kept, t.Rows[r])
				} else {
					rep.Removed++
				}
			}
			t.Rows = kept
		}
		rep.After = len(t.Rows)
		reports = append(reports, rep)
	}
	return reports
}
