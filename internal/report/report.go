// Package report renders run summaries for the terminal. It only consumes
// numbers the pipeline produced; nothing here computes.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/epidados/sragpipe/internal/mapping"
	"github.com/epidados/sragpipe/internal/pipeline"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	badMark  = color.New(color.FgRed).SprintFunc()
)

// Render writes the human-readable account of a run.
func Render(w io.Writer, s *pipeline.Summary) {
	fmt.Fprintf(w, "Run %s\n", s.RunID)
	fmt.Fprintf(w, "  input:  %s (%d rows × %d columns)\n", s.Input, s.RowsLoaded, s.ColsLoaded)
	fmt.Fprintf(w, "  output: %s (%d rows × %d columns)\n", s.Output, s.RowsWritten, s.ColsWritten)
	fmt.Fprintf(w, "  took:   %s\n\n", s.Duration.Round(time.Millisecond))

	if n := s.Normalize; n != nil {
		fmt.Fprintf(w, "%s schema: %d renamed, %d unknown dropped, %d near-empty dropped, %d duplicate rows\n",
			okMark("✓"), len(n.Renamed), len(n.DroppedUnknown), len(n.DroppedNullRatio), n.DuplicateRows)
		for _, f := range n.Faults {
			fmt.Fprintf(w, "%s column %s (%s): %s\n", warnMark("⚠"), f.Column, f.Op, f.Err)
		}
	}
	if s.Mapping != nil {
		renderMapping(w, s.Mapping)
	}
	if s.Derive != nil {
		for _, st := range s.Derive.Computed {
			fmt.Fprintf(w, "%s derived %s: %d values, %d null\n", okMark("✓"), st.Name, st.Rows, st.Nulls)
		}
		for _, name := range s.Derive.Skipped {
			fmt.Fprintf(w, "%s derived %s skipped: source columns absent\n", warnMark("⚠"), name)
		}
	}
	if len(s.Filters) > 0 {
		fmt.Fprintln(w)
		ft := tablewriter.NewWriter(w)
		ft.SetHeader([]string{"Rule", "Before", "Removed", "After"})
		for _, fr := range s.Filters {
			ft.Append([]string{fr.Rule, strconv.Itoa(fr.Before), strconv.Itoa(fr.Removed), strconv.Itoa(fr.After)})
		}
		ft.Render()
	}
}

func renderMapping(w io.Writer, rep *mapping.Report) {
	counts := rep.Counts()
	fmt.Fprintf(w, "%s mapping: %d newly mapped, %d already mapped, %d skipped, %d failed\n",
		okMark("✓"),
		counts[mapping.NewlyMapped], counts[mapping.AlreadyMapped],
		counts[mapping.Skipped], counts[mapping.Failed])

	// Only fields that did work or had trouble earn a table row.
	var rows []mapping.FieldResult
	for _, fr := range rep.Fields {
		if fr.Outcome == mapping.NewlyMapped || fr.Outcome == mapping.Failed || fr.ErrorRows > 0 {
			rows = append(rows, fr)
		}
	}
	if len(rows) == 0 {
		return
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Field < rows[j].Field })

	mt := tablewriter.NewWriter(w)
	mt.SetHeader([]string{"Field", "Outcome", "Rows Mapped", "Unresolved", "Residual"})
	for _, fr := range rows {
		residual := strings.Join(fr.Residual, ", ")
		if fr.Outcome == mapping.Failed {
			residual = fr.Reason
		}
		mt.Append([]string{
			fr.Field, fr.Outcome.String(),
			strconv.Itoa(fr.RowsMapped), strconv.Itoa(fr.ErrorRows), residual,
		})
	}
	mt.Render()

	for _, fr := range rep.Fields {
		if fr.Outcome == mapping.Failed {
			fmt.Fprintf(w, "%s field %s failed: %s\n", badMark("✗"), fr.Field, fr.Reason)
		}
	}
}

// RenderMerge writes the account of a multi-file merge.
func RenderMerge(w io.Writer, diags []pipeline.FileDiag, totalRows, totalCols int) {
	for _, d := range diags {
		if d.Err != "" {
			fmt.Fprintf(w, "%s %s: %s\n", badMark("✗"), d.File, d.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s: %d rows × %d columns\n", okMark("✓"), d.File, d.Rows, d.Cols)
	}
	fmt.Fprintf(w, "merged: %d rows × %d shared columns\n", totalRows, totalCols)
}
