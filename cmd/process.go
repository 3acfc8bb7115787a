package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/epidados/sragpipe/internal/dictionary"
	"github.com/epidados/sragpipe/internal/pipeline"
	"github.com/epidados/sragpipe/internal/report"
)

var (
	processInput  string
	processOutput string
	processDict   string
	flagNullRatio float64
	flagICUCutoff int
	flagChunkSize int
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the full pipeline over one input file",
	Long: `Process ingests a delimited surveillance file, normalizes its schema
against the code dictionary, maps categorical codes to labels, computes
derived date-difference fields, filters implausible records and writes the
result as a semicolon-separated UTF-8 table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyProcessOverrides(cmd)

		dict, err := resolveDictionary()
		if err != nil {
			return err
		}

		sum, err := pipeline.Run(processInput, processOutput, pipeline.Options{
			Dictionary:         dict,
			NullRatioThreshold: cfg.NullRatioThreshold,
			ICUDayCutoff:       cfg.ICUDayCutoff,
			ChunkSize:          cfg.ChunkSize,
		}, logger)
		if err != nil {
			return err
		}
		report.Render(os.Stdout, sum)
		return nil
	},
}

func applyProcessOverrides(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("null-ratio") {
		cfg.NullRatioThreshold = flagNullRatio
	}
	if f.Changed("icu-cutoff") {
		cfg.ICUDayCutoff = flagICUCutoff
	}
	if f.Changed("chunk-size") {
		cfg.ChunkSize = flagChunkSize
	}
	if processDict != "" {
		cfg.Dictionary = processDict
	}
}

// resolveDictionary loads the configured dictionary file, or falls back to
// the built-in SARI dictionary.
func resolveDictionary() (*dictionary.Dictionary, error) {
	if cfg.Dictionary == "" {
		return dictionary.Default(), nil
	}
	d, err := dictionary.Load(cfg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", cfg.Dictionary, err)
	}
	return d, nil
}

func init() {
	processCmd.Flags().StringVarP(&processInput, "input", "i", "", "input file (csv, optionally .gz/.bz2/.xz/.zip)")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output file")
	processCmd.Flags().StringVar(&processDict, "dict", "", "YAML code dictionary (default: built-in)")
	processCmd.Flags().Float64Var(&flagNullRatio, "null-ratio", 0.95, "drop columns with at least this missing fraction")
	processCmd.Flags().IntVar(&flagICUCutoff, "icu-cutoff", 160, "drop rows with ICU stays above this many days")
	processCmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "process in row chunks of this size (0 = whole file)")
	_ = processCmd.MarkFlagRequired("input")
	_ = processCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(processCmd)
}
