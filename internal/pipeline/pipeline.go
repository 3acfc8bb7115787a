// Package pipeline orchestrates a run: ingest → normalize → map → derive →
// filter → export. Stages execute strictly in sequence over one in-memory
// table; the only hard failure is ingestion, everything downstream degrades
// into report counts.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epidados/sragpipe/internal/derive"
	"github.com/epidados/sragpipe/internal/dictionary"
	"github.com/epidados/sragpipe/internal/export"
	"github.com/epidados/sragpipe/internal/filter"
	"github.com/epidados/sragpipe/internal/ingest"
	"github.com/epidados/sragpipe/internal/mapping"
	"github.com/epidados/sragpipe/internal/normalize"
	"github.com/epidados/sragpipe/internal/table"
)

// Options tunes a run. Zero values fall back to the documented defaults.
type Options struct {
	Dictionary         *dictionary.Dictionary
	NullRatioThreshold float64
	ICUDayCutoff       int
	ChunkSize          int // rows per chunk; 0 processes the whole table at once
}

func (o *Options) fill() {
	if o.Dictionary == nil {
		o.Dictionary = dictionary.Default()
	}
	if o.NullRatioThreshold <= 0 {
		o.NullRatioThreshold = normalize.DefaultNullRatio
	}
	if o.ICUDayCutoff <= 0 {
		o.ICUDayCutoff = filter.DefaultICUDayCutoff
	}
}

// Summary is everything a run produced besides the output file. Consumed by
// the report renderer; the pipeline itself never prints.
type Summary struct {
	RunID       string
	Input       string
	Output      string
	RowsLoaded  int
	ColsLoaded  int
	Normalize   *normalize.Result
	Mapping     *mapping.Report
	Derive      *derive.Result
	Filters     []filter.RuleReport
	RowsWritten int
	ColsWritten int
	Duration    time.Duration
}

// Run processes one input file into one output file.
func Run(input, output string, opts Options, log *zap.Logger) (*Summary, error) {
	opts.fill()
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString(), Input: input, Output: output}

	t, err := ingest.Load(input)
	if err != nil {
		return nil, err
	}
	sum.RowsLoaded, sum.ColsLoaded = len(t.Rows), len(t.Columns)
	log.Info("file loaded",
		zap.String("run", sum.RunID),
		zap.String("file", input),
		zap.Int("rows", sum.RowsLoaded),
		zap.Int("columns", sum.ColsLoaded))

	if opts.ChunkSize > 0 && len(t.Rows) > opts.ChunkSize {
		t, err = runChunked(t, opts, sum, log)
	} else {
		t, err = runWhole(t, opts, sum)
	}
	if err != nil {
		return nil, err
	}

	sum.Filters = filter.Apply(t, []filter.Rule{
		filter.ICUStayRule(opts.ICUDayCutoff),
		filter.MissingOutcomeRule(),
	})
	for _, fr := range sum.Filters {
		log.Info("filter applied",
			zap.String("rule", fr.Rule),
			zap.Int("before", fr.Before),
			zap.Int("removed", fr.Removed),
			zap.Int("after", fr.After))
	}

	if err := export.WriteFile(output, t); err != nil {
		return nil, err
	}
	sum.RowsWritten, sum.ColsWritten = len(t.Rows), len(t.Columns)
	sum.Duration = time.Since(start)
	log.Info("run finished",
		zap.String("run", sum.RunID),
		zap.Int("rows_written", sum.RowsWritten),
		zap.Duration("took", sum.Duration))
	return sum, nil
}

func runWhole(t *table.Table, opts Options, sum *Summary) (*table.Table, error) {
	sum.Normalize = normalize.Normalize(t, opts.Dictionary, normalize.Options{
		NullRatioThreshold: opts.NullRatioThreshold,
	})
	sum.Mapping = mapping.Apply(t, opts.Dictionary)
	dres, err := derive.Compute(t, derive.DefaultSpecs())
	if err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	sum.Derive = dres
	return t, nil
}

// runChunked passes row slices through normalize → map → derive
// independently and concatenates the results. Derived fields are intra-row,
// so chunk boundaries are always safe.
func runChunked(t *table.Table, opts Options, sum *Summary, log *zap.Logger) (*table.Table, error) {
	var (
		parts   []*table.Table
		mapReps []*mapping.Report
		norm    = &normalize.Result{Renamed: make(map[string]string)}
		der     = &derive.Result{}
	)
	for lo := 0; lo < len(t.Rows); lo += opts.ChunkSize {
		hi := lo + opts.ChunkSize
		if hi > len(t.Rows) {
			hi = len(t.Rows)
		}
		chunk := t.Slice(lo, hi)
		nres := normalize.Normalize(chunk, opts.Dictionary, normalize.Options{
			NullRatioThreshold: opts.NullRatioThreshold,
		})
		mapReps = append(mapReps, mapping.Apply(chunk, opts.Dictionary))
		dres, err := derive.Compute(chunk, derive.DefaultSpecs())
		if err != nil {
			return nil, fmt.Errorf("derive chunk %d: %w", len(parts), err)
		}
		mergeNormalize(norm, nres)
		mergeDerive(der, dres)
		parts = append(parts, chunk)
		log.Debug("chunk processed", zap.Int("chunk", len(parts)), zap.Int("rows", hi-lo))
	}
	out := table.Concat(parts...)
	norm.Table = out
	sum.Normalize = norm
	sum.Mapping = mapping.Merge(mapReps...)
	sum.Derive = der
	return out, nil
}

func mergeNormalize(into, from *normalize.Result) {
	into.DuplicateRows += from.DuplicateRows
	into.Faults = append(into.Faults, from.Faults...)
	for k, v := range from.Renamed {
		into.Renamed[k] = v
	}
	for _, c := range from.DroppedUnknown {
		if !containsStr(into.DroppedUnknown, c) {
			into.DroppedUnknown = append(into.DroppedUnknown, c)
		}
	}
	for _, c := range from.DroppedNullRatio {
		if !containsStr(into.DroppedNullRatio, c) {
			into.DroppedNullRatio = append(into.DroppedNullRatio, c)
		}
	}
}

func mergeDerive(into, from *derive.Result) {
	for _, s := range from.Computed {
		found := false
		for i := range into.Computed {
			if into.Computed[i].Name == s.Name {
				into.Computed[i].Rows += s.Rows
				into.Computed[i].Nulls += s.Nulls
				found = true
				break
			}
		}
		if !found {
			into.Computed = append(into.Computed, s)
		}
	}
	for _, s := range from.Skipped {
		if !containsStr(into.Skipped, s) {
			into.Skipped = append(into.Skipped, s)
		}
	}
}

func containsStr(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// FileDiag records one input of a multi-file merge.
type FileDiag struct {
	File string
	Rows int
	Cols int
	Err  string // non-empty when the file was skipped
}

// Merge ingests several files and stacks them on their shared columns.
// Files that fail ingestion are skipped with a diagnostic; the merge fails
// only when nothing loads.
func Merge(inputs []string, log *zap.Logger) (*table.Table, []FileDiag, error) {
	var (
		parts []*table.Table
		diags []FileDiag
	)
	for _, in := range inputs {
		t, err := ingest.Load(in)
		if err != nil {
			diags = append(diags, FileDiag{File: in, Err: err.Error()})
			log.Warn("file skipped", zap.String("file", in), zap.Error(err))
			continue
		}
		diags = append(diags, FileDiag{File: in, Rows: len(t.Rows), Cols: len(t.Columns)})
		log.Info("file loaded", zap.String("file", in), zap.Int("rows", len(t.Rows)), zap.Int("columns", len(t.Columns)))
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return nil, diags, fmt.Errorf("merge: no input file could be loaded")
	}
	return table.Concat(parts...), diags, nil
}
