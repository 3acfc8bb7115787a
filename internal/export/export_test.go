package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/epidados/sragpipe/internal/table"
)

func TestWriteBOMAndDelimiter(t *testing.T) {
	tab := table.New([]string{"A", "B"})
	tab.Rows = [][]string{{"1", "até"}, {"2", "x;y"}}

	var buf bytes.Buffer
	if err := Write(&buf, tab); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("missing utf-8 BOM")
	}
	body := string(out[3:])
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if lines[0] != "A;B" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "1;até" {
		t.Fatalf("row = %q", lines[1])
	}
	// A cell containing the delimiter must be quoted
	if lines[2] != `2;"x;y"` {
		t.Fatalf("quoted row = %q", lines[2])
	}
}

func TestWriteShortRowPadded(t *testing.T) {
	tab := table.New([]string{"A", "B", "C"})
	tab.Rows = [][]string{{"1"}}
	var buf bytes.Buffer
	if err := Write(&buf, tab); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "1;;") {
		t.Fatalf("short row not padded: %q", buf.String())
	}
}
