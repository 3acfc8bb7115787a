// Package ingest loads raw delimited surveillance files. Source files vary
// by year in encoding, delimiter and compression, so loading walks an ordered
// list of candidate configurations and returns the first one that parses
// into a structurally plausible table.
package ingest

import (
	"archive/zip"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xi2/xz"
	"golang.org/x/text/encoding/charmap"

	"github.com/epidados/sragpipe/internal/table"
)

// Config is one (encoding, delimiter) candidate. A zero Delimiter means
// sniff from the first line.
type Config struct {
	Encoding  string // "latin1" or "utf-8"
	Delimiter rune
}

func (c Config) String() string {
	d := "auto"
	if c.Delimiter != 0 {
		d = string(c.Delimiter)
	}
	return fmt.Sprintf("{%s %q}", c.Encoding, d)
}

// DefaultConfigs is the attempt order: the Brazilian export convention
// first, then the international comma, then UTF-8, then sniffing.
func DefaultConfigs() []Config {
	return []Config{
		{Encoding: "latin1", Delimiter: ';'},
		{Encoding: "latin1", Delimiter: ','},
		{Encoding: "utf-8", Delimiter: ';'},
		{Encoding: "latin1"},
	}
}

// AttemptDiag records one failed configuration for diagnosis.
type AttemptDiag struct {
	Config Config
	Err    string
}

// IngestionError reports that no configuration could parse a file. It is the
// one hard failure class: the caller decides whether to skip the file.
type IngestionError struct {
	File     string
	Attempts []AttemptDiag
	Preview  []string // first raw lines, latin-1 decoded
}

func (e *IngestionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ingest %s: no configuration parsed the file (%d attempts)", e.File, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %s", a.Config, a.Err)
	}
	return b.String()
}

// Load reads a delimited file into a table, trying configurations in order.
// Compression is unwrapped by extension before the configuration loop.
func Load(path string) (*table.Table, error) {
	return LoadWith(path, DefaultConfigs())
}

// LoadWith is Load with an explicit configuration list.
func LoadWith(path string, configs []Config) (*table.Table, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	ierr := &IngestionError{File: path, Preview: previewLines(raw, 5)}
	for _, cfg := range configs {
		t, err := parse(raw, cfg)
		if err != nil {
			ierr.Attempts = append(ierr.Attempts, AttemptDiag{Config: cfg, Err: err.Error()})
			continue
		}
		return t, nil
	}
	return nil, ierr
}

// readRaw returns the file contents with any recognized compression layer
// removed. Only reads; never writes.
func readRaw(path string) ([]byte, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return readZip(path)
	case strings.HasSuffix(lower, ".gz"):
		return readThrough(path, func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) })
	case strings.HasSuffix(lower, ".bz2"):
		return readThrough(path, func(r io.Reader) (io.Reader, error) { return bzip2.NewReader(r), nil })
	case strings.HasSuffix(lower, ".xz"):
		return readThrough(path, func(r io.Reader) (io.Reader, error) { return xz.NewReader(r, 0) })
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
}

func readThrough(path string, wrap func(io.Reader) (io.Reader, error)) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	r, err := wrap(bufio.NewReaderSize(f, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return data, nil
}

// readZip extracts the first file entry of a zip archive.
func readZip(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read zip entry %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("zip %s: no file entries", path)
}

// parse decodes and parses raw bytes under one configuration. A parse
// succeeds only when the result has more than one column: a wrong delimiter
// typically "succeeds" by cramming every field into column one, and that
// false success must not win.
func parse(raw []byte, cfg Config) (*table.Table, error) {
	data := raw
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	switch cfg.Encoding {
	case "utf-8":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("not valid utf-8")
		}
	case "latin1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("latin1 decode: %w", err)
		}
		data = decoded
	default:
		return nil, fmt.Errorf("unknown encoding %q", cfg.Encoding)
	}

	delim := cfg.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) <= 1 {
		return nil, fmt.Errorf("single column with delimiter %q", delim)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := table.New(header)
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+2, err)
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// sniffDelimiter picks the candidate most frequent in the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestN := ';', -1
	for _, c := range []byte{';', ',', '\t', '|'} {
		if n := bytes.Count(line, []byte{c}); n > bestN {
			best, bestN = rune(c), n
		}
	}
	return best
}

// previewLines returns up to n raw lines decoded as latin-1, for attaching
// to an IngestionError. Latin-1 decoding cannot fail, so the preview is
// always available regardless of the real encoding.
func previewLines(raw []byte, n int) []string {
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(decoded))
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() && len(out) < n {
		line := sc.Text()
		if len(line) > 200 {
			line = line[:200]
		}
		out = append(out, line)
	}
	return out
}
