package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/qcreport/internal/registry"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for qcreport
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qcreport <fastqc_data.txt> <output_root>",
		Short: "Split a FastQC report into per-section files",
		Long: `qcreport splits a FastQC fastqc_data.txt report into one directory per
section under the output root. Each directory gets report.txt (the raw
section table) and flag.txt (pass, warn or fail), and an optional external
renderer can draw a chart next to them.

Select sections with one flag per section, --section for any title, or -a
for every known section. Configuration is loaded from .qcreport/config.yaml
(or config.toml) if present; CLI flags override it.

Examples:
  qcreport sample_fastqc/fastqc_data.txt out -a
  qcreport fastqc_data.txt out -b -g --adapter-content
  qcreport fastqc_data.txt out --section "Per base sequence quality"
  qcreport sections
  qcreport history --limit 5`,
		Version: Version,
		Args:    cobra.ExactArgs(2),
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, args[0], args[1])
		},
	}

	addSplitFlags(cmd, registry.Default())

	cmd.AddCommand(NewSectionsCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
