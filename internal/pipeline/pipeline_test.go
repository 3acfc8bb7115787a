package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeLatin1 writes raw latin-1 bytes; ASCII passes through, accented
// characters are given as explicit byte values by the callers.
func writeLatin1(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readOutput(t *testing.T, path string) ([]string, [][]string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "output must carry a utf-8 BOM")
	r := csv.NewReader(bytes.NewReader(raw[3:]))
	r.Comma = ';'
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	return recs[0], recs[1:]
}

func col(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, c := range header {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %s not in output header %v", name, header)
	return -1
}

func TestRunEndToEnd(t *testing.T) {
	// Semicolon-separated latin-1 input: codes, day-first dates, one junk
	// column, one fully empty dictionary column, one accented text value
	// (0xC9 = É in latin-1).
	var fixture bytes.Buffer
	fixture.WriteString("NU_NOTIFIC;CS_SEXO;EVOLUCAO;DT_NASC;DT_SIN_PRI;DT_ENTUTI;DT_SAIDUTI;FEBRE;FOO_JUNK\n")
	fixture.Write([]byte{'A', 'T', 0xC9})
	fixture.WriteString(";1;1;01/01/1980;01/01/2021;;;;x\n")
	fixture.WriteString("N2;2;2;;;01/01/2021;20/07/2021;;x\n") // 200-day ICU stay, removed
	fixture.WriteString("N3;9.0;;;;;;;x\n")                    // missing outcome, removed
	fixture.WriteString("N4;1;1;;;01/01/2021;11/01/2021;;x\n")

	in := writeLatin1(t, "srag.csv", fixture.Bytes())
	out := filepath.Join(t.TempDir(), "out.csv")

	sum, err := Run(in, out, Options{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, sum.RowsLoaded)
	assert.Equal(t, 9, sum.ColsLoaded)
	assert.Contains(t, sum.Normalize.DroppedUnknown, "FOO_JUNK")
	assert.Contains(t, sum.Normalize.DroppedNullRatio, "FEBRE")
	assert.Equal(t, 2, sum.RowsWritten)

	header, rows := readOutput(t, out)
	assert.NotContains(t, header, "FOO_JUNK")
	assert.NotContains(t, header, "FEBRE")
	require.Len(t, rows, 2)

	sexo := col(t, header, "CS_SEXO")
	evo := col(t, header, "EVOLUCAO")
	age := col(t, header, "AGE_YEARS")
	icu := col(t, header, "ICU_STAY_DAYS")
	id := col(t, header, "NU_NOTIFIC")

	// Row order is preserved through filtering.
	assert.Equal(t, "ATÉ", rows[0][id])
	assert.Equal(t, "Masculino", rows[0][sexo])
	assert.Equal(t, "Cura", rows[0][evo])
	assert.Equal(t, "41", rows[0][age])
	assert.Equal(t, "", rows[0][icu])

	assert.Equal(t, "N4", rows[1][id])
	assert.Equal(t, "10", rows[1][icu])
	assert.Equal(t, "", rows[1][age])
}

func TestRunChunkedMatchesWhole(t *testing.T) {
	var fixture bytes.Buffer
	fixture.WriteString("NU_NOTIFIC;CS_SEXO;EVOLUCAO;DT_NASC;DT_SIN_PRI\n")
	for i := 0; i < 10; i++ {
		sexo := "1"
		if i%2 == 1 {
			sexo = "2"
		}
		fmt.Fprintf(&fixture, "N%d;%s;1;01/01/19%02d;01/01/2021\n", i, sexo, 50+i)
	}
	in := writeLatin1(t, "srag.csv", fixture.Bytes())

	dir := t.TempDir()
	wholeOut := filepath.Join(dir, "whole.csv")
	chunkOut := filepath.Join(dir, "chunked.csv")

	wholeSum, err := Run(in, wholeOut, Options{}, zap.NewNop())
	require.NoError(t, err)
	chunkSum, err := Run(in, chunkOut, Options{ChunkSize: 3}, zap.NewNop())
	require.NoError(t, err)

	whole, err := os.ReadFile(wholeOut)
	require.NoError(t, err)
	chunked, err := os.ReadFile(chunkOut)
	require.NoError(t, err)
	assert.Equal(t, whole, chunked, "chunked output must match single-pass output")
	assert.Equal(t, wholeSum.RowsWritten, chunkSum.RowsWritten)
	assert.Equal(t, wholeSum.Mapping.Counts(), chunkSum.Mapping.Counts())
}

func TestMergeSkipsUnreadable(t *testing.T) {
	good := writeLatin1(t, "good.csv", []byte("NU_NOTIFIC;CS_SEXO\nN1;1\n"))
	missing := filepath.Join(t.TempDir(), "nope.csv")

	tab, diags, err := Merge([]string{good, missing}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, len(tab.Rows))
	require.Len(t, diags, 2)
	assert.Empty(t, diags[0].Err)
	assert.NotEmpty(t, diags[1].Err)
}

func TestMergeAllFail(t *testing.T) {
	_, _, err := Merge([]string{filepath.Join(t.TempDir(), "nope.csv")}, zap.NewNop())
	require.Error(t, err)
}
