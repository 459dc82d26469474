package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"testtrail/internal/formatting"
	"testtrail/internal/recorder"
)

func newShowCmd() *cobra.Command {
	var output string
	var where string
	var color bool

	cmd := &cobra.Command{
		Use:   "show <report.json>",
		Short: "Print a saved report",
		Long: `Reads a report written by testtrail and prints it as a table, a console
tree, YAML, or the JSON it was saved as.

--where keeps only the tests an expression holds for. It sees test, commands,
error and failed.`,
		Example: `  testtrail show cypress/logs/auth.json
  testtrail show -o console --where 'failed' cypress/logs/checkout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(output)
			if err != nil {
				return err
			}

			report, err := recorder.ReadReport(args[0])
			if err != nil {
				return err
			}

			if where != "" {
				filter, err := formatting.NewFilter(where)
				if err != nil {
					return err
				}
				if report, err = filter.Apply(report); err != nil {
					return err
				}
			}

			f := formatting.NewFormatter(formatting.Options{Format: format, Color: color})
			return f.FormatReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(formatting.FormatTable), "Output format: table, console, json or yaml")
	cmd.Flags().StringVar(&where, "where", "", "Only show tests matching this expression")
	cmd.Flags().BoolVar(&color, "color", isTerminal(os.Stdout), "Color failed tests")
	return cmd
}
