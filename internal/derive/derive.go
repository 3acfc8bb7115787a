// Package derive computes date-difference fields (age, hospital stay, ICU
// stay) from normalized date columns. Values land in a side buffer that is
// merged into the table in a single operation.
package derive

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/epidados/sragpipe/internal/table"
)

// Derived column names on the output table.
const (
	ColAge          = "AGE_YEARS"
	ColHospitalStay = "HOSPITAL_STAY_DAYS"
	ColICUStay      = "ICU_STAY_DAYS"
)

// Spec describes one derived field: end minus start, in days.
type Spec struct {
	Name    string
	Start   string // source column of the earlier date
	End     string // source column of the later date
	InYears bool   // divide by 365.25 and floor
}

// DefaultSpecs matches the surveillance schema's date pairs.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: ColAge, Start: "DT_NASC", End: "DT_SIN_PRI", InYears: true},
		{Name: ColHospitalStay, Start: "DT_INTERNA", End: "DT_EVOLUCA"},
		{Name: ColICUStay, Start: "DT_ENTUTI", End: "DT_SAIDUTI"},
	}
}

// Stat reports one computed field.
type Stat struct {
	Name  string
	Rows  int // rows with a value
	Nulls int // rows left null (missing, unparseable, or negative span)
}

// Result lists what was computed and what was skipped.
type Result struct {
	Computed []Stat
	Skipped  []string // specs whose source columns are absent
}

// dateLayouts are the accepted day-first export formats. Anything else is
// null, never an error; no guessing beyond these.
var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// ParseDate parses a date-only cell. Returns ok=false for missing or
// unparseable values.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if table.IsMissing(v) {
		return time.Time{}, false
	}
	// Exports sometimes carry a timestamp tail; the date part is enough.
	if i := strings.IndexAny(v, " T"); i > 0 {
		v = v[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Compute fills the derived columns for t and merges them in one append.
// A spec whose source columns are not present is skipped, not an error.
func Compute(t *table.Table, specs []Spec) (*Result, error) {
	res := &Result{}
	var buf []table.Column
	for _, s := range specs {
		si, ei := t.ColumnIndex(s.Start), t.ColumnIndex(s.End)
		if si < 0 || ei < 0 {
			res.Skipped = append(res.Skipped, s.Name)
			continue
		}
		col := table.Column{Name: s.Name, Cells: make([]string, len(t.Rows))}
		stat := Stat{Name: s.Name}
		for r := range t.Rows {
			start, ok1 := ParseDate(t.Cell(r, si))
			end, ok2 := ParseDate(t.Cell(r, ei))
			if !ok1 || !ok2 {
				stat.Nulls++
				continue
			}
			days := int(end.Sub(start).Hours() / 24)
			if days < 0 {
				stat.Nulls++
				continue
			}
			if s.InYears {
				col.Cells[r] = strconv.Itoa(int(math.Floor(float64(days) / 365.25)))
			} else {
				col.Cells[r] = strconv.Itoa(days)
			}
			stat.Rows++
		}
		buf = append(buf, col)
		res.Computed = append(res.Computed, stat)
	}
	if err := t.AppendColumns(buf...); err != nil {
		return nil, err
	}
	return res, nil
}
