package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/epidados/sragpipe/internal/export"
	"github.com/epidados/sragpipe/internal/pipeline"
	"github.com/epidados/sragpipe/internal/report"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge -o unified.csv <file>...",
	Short: "Ingest several yearly exports and stack them on shared columns",
	Long: `Merge loads each input through the same tolerant ingestion as process
and concatenates the tables on the columns they all share. Files that no
configuration can parse are skipped with a diagnostic; the merge only fails
when nothing loads.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, diags, err := pipeline.Merge(args, logger)
		if err != nil {
			report.RenderMerge(os.Stdout, diags, 0, 0)
			return err
		}
		if err := export.WriteFile(mergeOutput, t); err != nil {
			return err
		}
		report.RenderMerge(os.Stdout, diags, len(t.Rows), len(t.Columns))
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "output file for the unified table")
	_ = mergeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(mergeCmd)
}
