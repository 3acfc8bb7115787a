package derive

import (
	"testing"

	"github.com/epidados/sragpipe/internal/table"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"05/03/2021", true},
		{"2021-03-05", true},
		{"2021-03-05 00:00:00", true},
		{"", false},
		{"NA", false},
		{"31/02/2021", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		_, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
	d, ok := ParseDate("05/03/2021")
	if !ok || d.Year() != 2021 || int(d.Month()) != 3 || d.Day() != 5 {
		t.Fatalf("day-first parse got %v", d)
	}
}

func TestComputeAge(t *testing.T) {
	tab := table.New([]string{"DT_NASC", "DT_SIN_PRI"})
	tab.Rows = [][]string{
		{"01/01/1980", "01/01/2021"}, // 41 years
		{"", "01/01/2021"},           // missing birth → null
		{"01/01/2021", "01/01/1980"}, // negative → null
		{"junk", "01/01/2021"},       // unparseable → null
		{"02/07/2020", "01/01/2021"}, // under one year → 0
	}

	res, err := Compute(tab, DefaultSpecs())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	ci := tab.ColumnIndex(ColAge)
	if ci < 0 {
		t.Fatal("AGE_YEARS not merged")
	}
	want := []string{"41", "", "", "", "0"}
	for i, w := range want {
		if got := tab.Cell(i, ci); got != w {
			t.Errorf("row %d: age = %q, want %q", i, got, w)
		}
	}

	var ageStat *Stat
	for i := range res.Computed {
		if res.Computed[i].Name == ColAge {
			ageStat = &res.Computed[i]
		}
	}
	if ageStat == nil || ageStat.Rows != 2 || ageStat.Nulls != 3 {
		t.Fatalf("age stat = %+v", ageStat)
	}

	// Hospital and ICU specs have no source columns here.
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped = %v", res.Skipped)
	}
}

func TestComputeStays(t *testing.T) {
	tab := table.New([]string{"DT_INTERNA", "DT_EVOLUCA", "DT_ENTUTI", "DT_SAIDUTI"})
	tab.Rows = [][]string{
		{"01/03/2021", "15/03/2021", "02/03/2021", "10/03/2021"},
		{"01/03/2021", "", "10/03/2021", "02/03/2021"},
	}

	if _, err := Compute(tab, DefaultSpecs()); err != nil {
		t.Fatalf("compute: %v", err)
	}

	hi := tab.ColumnIndex(ColHospitalStay)
	ii := tab.ColumnIndex(ColICUStay)
	if got := tab.Cell(0, hi); got != "14" {
		t.Errorf("hospital stay = %q, want 14", got)
	}
	if got := tab.Cell(0, ii); got != "8" {
		t.Errorf("icu stay = %q, want 8", got)
	}
	// Missing end date and reversed ICU pair both null
	if got := tab.Cell(1, hi); got != "" {
		t.Errorf("missing outcome date: stay = %q, want null", got)
	}
	if got := tab.Cell(1, ii); got != "" {
		t.Errorf("reversed dates: icu stay = %q, want null", got)
	}
}
