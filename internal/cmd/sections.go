package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/qcreport/internal/display"
	"github.com/harrison/qcreport/internal/registry"
)

// NewSectionsCommand lists the known FastQC sections and their flags.
func NewSectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the FastQC sections qcreport knows about",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("columns")
			out := cmd.OutOrStdout()

			headers := []string{"TITLE", "KIND", "FLAG", "CHART"}
			if verbose {
				headers = append(headers, "COLUMNS")
			}

			var rows [][]string
			for _, e := range registry.Default().Entries() {
				flag := "--" + e.Flag
				if e.Shorthand != "" {
					flag = fmt.Sprintf("-%s, %s", e.Shorthand, flag)
				}
				chart := e.Chart
				if chart == "" {
					chart = "-"
				}
				row := []string{e.Title, string(e.Kind), flag, chart}
				if verbose {
					row = append(row, strings.Join(e.Schema.Columns, ", "))
				}
				rows = append(rows, row)
			}

			display.Table(out, headers, rows, display.UseColor(out))
			return nil
		},
	}

	cmd.Flags().Bool("columns", false, "Also show the expected report columns")
	return cmd
}
