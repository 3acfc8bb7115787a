package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/epidados/sragpipe/internal/dictionary"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect code dictionaries",
}

var dictValidateCmd = &cobra.Command{
	Use:   "validate <dict.yaml>",
	Short: "Parse a dictionary file and check its invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := dictionary.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s %s: %d fields\n", color.GreenString("✓"), args[0], d.Len())
		return nil
	},
}

var dictShowCmd = &cobra.Command{
	Use:   "show <field>",
	Short: "Print the code map of one built-in dictionary field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDictionary()
		if err != nil {
			return err
		}
		f, ok := d.Field(args[0])
		if !ok {
			return fmt.Errorf("field %s: not in dictionary", args[0])
		}
		fmt.Fprintf(os.Stdout, "%s (%s, %s)\n", f.Name, f.Kind, strconv.Itoa(len(f.Codes))+" codes")
		if len(f.Codes) == 0 {
			return nil
		}
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"Code", "Label"})
		for _, c := range f.Codes {
			tw.Append([]string{c.Value, c.Label})
		}
		tw.Render()
		return nil
	},
}

func init() {
	dictCmd.AddCommand(dictValidateCmd, dictShowCmd)
	rootCmd.AddCommand(dictCmd)
}
