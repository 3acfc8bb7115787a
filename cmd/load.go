package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/epidados/sragpipe/internal/ingest"
	"github.com/epidados/sragpipe/internal/pgload"
)

var (
	loadInput string
	loadTable string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a processed table into PostgreSQL",
	Long: `Load reads a processed output file and copies it into a PostgreSQL
table (all columns text). The connection string comes from SRAGPIPE_PG_DSN
or DATABASE_URL, with a .env file honored when present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Our own output is always UTF-8 with ';', so try that first and
		// keep the usual fallbacks for tables produced elsewhere.
		configs := append([]ingest.Config{{Encoding: "utf-8", Delimiter: ';'}}, ingest.DefaultConfigs()...)
		t, err := ingest.LoadWith(loadInput, configs)
		if err != nil {
			return err
		}

		dsn, err := pgload.DSN()
		if err != nil {
			return err
		}
		name := loadTable
		if name == "" {
			name = cfg.PGTable
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(loadInput), filepath.Ext(loadInput))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
		defer cancel()

		start := time.Now()
		n, err := pgload.Load(ctx, dsn, name, t)
		if err != nil {
			return fmt.Errorf("load %s: %w", loadInput, err)
		}
		fmt.Fprintf(os.Stdout, "%s loaded %d rows into %s (%s)\n",
			color.GreenString("✓"), n, pgload.SanitizeIdent(name), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVarP(&loadInput, "input", "i", "", "processed table to load")
	loadCmd.Flags().StringVar(&loadTable, "table", "", "destination table name (default from config or file name)")
	_ = loadCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(loadCmd)
}
