package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/qcreport/internal/config"
	"github.com/harrison/qcreport/internal/dispatch"
	"github.com/harrison/qcreport/internal/display"
	"github.com/harrison/qcreport/internal/filelock"
	"github.com/harrison/qcreport/internal/history"
	"github.com/harrison/qcreport/internal/logger"
	"github.com/harrison/qcreport/internal/models"
	"github.com/harrison/qcreport/internal/parser"
	"github.com/harrison/qcreport/internal/registry"
	"github.com/harrison/qcreport/internal/render"
	"github.com/harrison/qcreport/internal/store"
	"github.com/harrison/qcreport/internal/summary"
)

func addSplitFlags(cmd *cobra.Command, reg *registry.Registry) {
	for _, e := range reg.Entries() {
		cmd.Flags().BoolP(e.Flag, e.Shorthand, false, e.Usage)
	}
	cmd.Flags().BoolP("all", "a", false, "Split every known section")
	cmd.Flags().StringArray("section", nil, "Split the section with this exact title (repeatable)")

	cmd.Flags().String("config", "", "Path to config file (default: .qcreport/config.yaml)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for run logs (empty string disables file logging)")
	cmd.Flags().Int("max-concurrency", 0, "Sections processed in parallel (0 = number of CPUs)")
	cmd.Flags().Duration("renderer-timeout", 0, "Time limit for one renderer invocation (e.g. 30s, 2m)")
	cmd.Flags().Bool("no-index", false, "Do not write index.md and index.html")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print Basic Statistics or the outcome table")
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var (
		logLevel, logDir *string
		maxConcurrency   *int
		rendererTimeout  *time.Duration
		noIndex, quiet   *bool
	)
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevel = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		logDir = &v
	}
	if flags.Changed("max-concurrency") {
		v, _ := flags.GetInt("max-concurrency")
		maxConcurrency = &v
	}
	if flags.Changed("renderer-timeout") {
		v, _ := flags.GetDuration("renderer-timeout")
		rendererTimeout = &v
	}
	if flags.Changed("no-index") {
		v, _ := flags.GetBool("no-index")
		noIndex = &v
	}
	if flags.Changed("quiet") {
		v, _ := flags.GetBool("quiet")
		quiet = &v
	}
	cfg.MergeWithFlags(logLevel, logDir, maxConcurrency, rendererTimeout, noIndex, quiet)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildRequest maps section flags to a dispatch request.
func buildRequest(cmd *cobra.Command, reg *registry.Registry) dispatch.Request {
	var req dispatch.Request
	req.All, _ = cmd.Flags().GetBool("all")
	for _, e := range reg.Entries() {
		if on, _ := cmd.Flags().GetBool(e.Flag); on {
			req.Kinds = append(req.Kinds, e.Kind)
		}
	}
	req.Titles, _ = cmd.Flags().GetStringArray("section")
	return req
}

// withFileLogger adds a file logger to console when a log dir is
// configured. The returned close function is never nil.
func withFileLogger(cfg *config.Config, console logger.Logger) (logger.Logger, func(), error) {
	if cfg.LogDir == "" {
		return console, func() {}, nil
	}

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger.Multi(console, fileLog), func() { fileLog.Close() }, nil
}

// runSplit parses input and writes the selected sections below outputRoot.
// Only configuration errors, an unreadable input and a locked output root
// are returned; per-section failures are reported and the run succeeds.
func runSplit(cmd *cobra.Command, input, outputRoot string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	quiet, _ := cmd.Flags().GetBool("quiet")

	console := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	reg := registry.Default()

	// Parse everything before touching the disk. The log dir may live
	// under the output root.
	parsed, err := parser.ParseFile(input)
	if err != nil {
		console.LogError(err.Error())
		return err
	}

	log, closeLog, err := withFileLogger(cfg, console)
	if err != nil {
		return err
	}
	defer closeLog()
	log.LogDebug(fmt.Sprintf("Parsed %d lines, %d sections", parsed.Lines, parsed.Document.Len()))

	for _, d := range parsed.Diagnostics {
		log.LogWarn(d.Error())
	}
	if w, ok := display.WarnDiagnostics(input, parsed.Diagnostics); ok {
		w.Display(stderr, display.UseColor(stderr))
	}

	if cfg.PrintSummary {
		if basic, ok := reg.Lookup(registry.KindBasicStatistics); ok {
			if rec, ok := parsed.Document.Get(basic.Title); ok {
				display.BasicStatistics(out, rec, display.UseColor(out))
			}
		}
	}

	req := buildRequest(cmd, reg)
	if req.Empty() {
		log.LogWarn("No sections selected; use -a, --section or a section flag")
		return nil
	}

	lock, err := filelock.LockDir(outputRoot)
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return fmt.Errorf("output root in use by another qcreport run: %w", err)
		}
		return err
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := dispatch.New(store.New(outputRoot), buildRenderers(cfg, reg), reg, log,
		dispatch.Options{MaxConcurrency: cfg.MaxConcurrency})

	titles, err := d.Titles(req)
	if err != nil {
		return err
	}
	log.LogRunStart(input, len(titles))

	result, err := d.Dispatch(ctx, parsed.Document, req)
	if err != nil {
		return err
	}
	result.RunID = history.NewRunID()
	result.InputPath = input

	log.LogSummary(result)
	if !quiet {
		fmt.Fprintln(out)
		display.OutcomeTable(out, result, display.UseColor(out))
	}

	if cfg.Index.Enabled {
		idx, err := summary.NewWriter().Write(result)
		if err != nil {
			log.LogWarn(fmt.Sprintf("Failed to write run index: %v", err))
		} else {
			log.LogDebug(fmt.Sprintf("Run index written to %s", idx.MarkdownPath))
		}
	}

	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg.History.DBPath, result, len(parsed.Diagnostics)); err != nil {
			log.LogWarn(fmt.Sprintf("Failed to record run history: %v", err))
		}
	}

	return nil
}

func buildRenderers(cfg *config.Config, reg *registry.Registry) render.Table {
	opts := render.Options{SchemaCheck: cfg.Renderer.SchemaCheck}
	if len(cfg.Renderer.Command) > 0 {
		opts.Chart = render.Command{Argv: cfg.Renderer.Command, Timeout: cfg.Renderer.Timeout}
	}
	return render.Build(reg, opts)
}

func recordHistory(ctx context.Context, dbPath string, result *models.RunResult, diagnostics int) error {
	hs, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer hs.Close()
	// Record even when the run was interrupted.
	return hs.RecordRun(context.WithoutCancel(ctx), result, diagnostics)
}
