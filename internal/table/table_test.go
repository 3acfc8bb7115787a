package table

import (
	"reflect"
	"testing"
)

func TestIsMissing(t *testing.T) {
	missing := []string{"", "  ", "NA", "nan", "NaN", "<NA>", "null", "None"}
	for _, v := range missing {
		if !IsMissing(v) {
			t.Errorf("IsMissing(%q) = false, want true", v)
		}
	}
	present := []string{"0", "1.0", "IGNORADO", "N/A ok"}
	for _, v := range present {
		if IsMissing(v) {
			t.Errorf("IsMissing(%q) = true, want false", v)
		}
	}
}

func TestDedupe(t *testing.T) {
	tab := New([]string{"A", "B"})
	tab.Rows = [][]string{
		{"1", "x"},
		{"1", "x"},
		{"1", "y"},
		{"1", "x"},
	}
	removed := tab.Dedupe()
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tab.Rows))
	}
}

func TestMissingRatio(t *testing.T) {
	tab := New([]string{"A"})
	tab.Rows = [][]string{{"x"}, {""}, {"NA"}, {"y"}}
	if got := tab.MissingRatio(0); got != 0.5 {
		t.Fatalf("ratio = %v, want 0.5", got)
	}
}

func TestDistinctOrder(t *testing.T) {
	tab := New([]string{"A"})
	tab.Rows = [][]string{{"2"}, {"1"}, {""}, {"2"}, {"9"}}
	got := tab.Distinct(0)
	want := []string{"2", "1", "9"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("distinct = %v, want %v", got, want)
	}
}

func TestDropColumns(t *testing.T) {
	tab := New([]string{"A", "B", "C"})
	tab.Rows = [][]string{{"1", "2", "3"}, {"4", "5", "6"}}
	tab.DropColumns("B", "missing")
	if !reflect.DeepEqual(tab.Columns, []string{"A", "C"}) {
		t.Fatalf("columns = %v", tab.Columns)
	}
	if !reflect.DeepEqual(tab.Rows[1], []string{"4", "6"}) {
		t.Fatalf("row = %v", tab.Rows[1])
	}
}

func TestRenameColumnConflict(t *testing.T) {
	tab := New([]string{"A", "B"})
	if err := tab.RenameColumn("A", "B"); err == nil {
		t.Fatal("expected error renaming onto existing column")
	}
	if err := tab.RenameColumn("A", "Z"); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

func TestAppendColumns(t *testing.T) {
	tab := New([]string{"A"})
	tab.Rows = [][]string{{"1"}, {"2"}}
	err := tab.AppendColumns(
		Column{Name: "X", Cells: []string{"a", "b"}},
		Column{Name: "Y", Cells: []string{"", "d"}},
	)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := tab.Cell(1, 2); got != "d" {
		t.Fatalf("cell = %q, want d", got)
	}
	if err := tab.AppendColumns(Column{Name: "Z", Cells: []string{"only-one"}}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := tab.AppendColumns(Column{Name: "X", Cells: []string{"a", "b"}}); err == nil {
		t.Fatal("expected duplicate column error")
	}
}

func TestConcatSharedColumns(t *testing.T) {
	a := New([]string{"A", "B", "C"})
	a.Rows = [][]string{{"1", "2", "3"}}
	b := New([]string{"C", "A"})
	b.Rows = [][]string{{"30", "10"}}
	out := Concat(a, b)
	if !reflect.DeepEqual(out.Columns, []string{"A", "C"}) {
		t.Fatalf("columns = %v", out.Columns)
	}
	if !reflect.DeepEqual(out.Rows, [][]string{{"1", "3"}, {"10", "30"}}) {
		t.Fatalf("rows = %v", out.Rows)
	}
}

func TestSliceIsIndependentHeader(t *testing.T) {
	tab := New([]string{"A", "B"})
	tab.Rows = [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}
	chunk := tab.Slice(0, 2)
	chunk.DropColumns("B")
	if len(tab.Columns) != 2 {
		t.Fatalf("parent header mutated: %v", tab.Columns)
	}
	if len(chunk.Rows) != 2 || len(chunk.Rows[0]) != 1 {
		t.Fatalf("chunk shape wrong: %v", chunk.Rows)
	}
}
