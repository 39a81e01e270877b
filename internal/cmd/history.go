package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrison/qcreport/internal/display"
	"github.com/harrison/qcreport/internal/history"
)

// NewHistoryCommand shows recent runs from the history database.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent qcreport runs",
		Long: `Show recent qcreport runs recorded in the SQLite history database.

With --run, show the per-section outcomes of one run instead.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	cmd.Flags().String("db", "", "History database path (default: history.db_path from config)")
	cmd.Flags().String("run", "", "Show the sections of this run ID")
	cmd.Flags().String("config", "", "Path to config file (default: .qcreport/config.yaml)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath = cfg.History.DBPath
	}

	hs, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hs.Close()

	out := cmd.OutOrStdout()
	useColor := display.UseColor(out)
	ctx := cmd.Context()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		run, err := hs.Run(ctx, runID)
		if err != nil {
			return err
		}
		sections, err := hs.Sections(ctx, runID)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Run %s: %s -> %s\n\n", run.ID, run.InputPath, run.OutputRoot)
		var rows [][]string
		for _, s := range sections {
			status := string(s.Status)
			if status == "" {
				status = "-"
			}
			detail := s.Error
			if s.RenderError != "" {
				detail = "render: " + s.RenderError
			}
			rows = append(rows, []string{s.Title, status, string(s.State), strconv.Itoa(s.Artifacts), detail})
		}
		display.Table(out, []string{"SECTION", "QC", "OUTCOME", "ARTIFACTS", "DETAIL"}, rows, useColor)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := hs.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	var rows [][]string
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/%d", r.Persisted, r.Requested),
			strconv.Itoa(r.RenderFailures),
			r.InputPath,
		})
	}
	display.Table(out, []string{"RUN", "STARTED", "WRITTEN", "RENDER FAILS", "INPUT"}, rows, useColor)
	return nil
}
