package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/xilreport/internal/config"
	"github.com/nao1215/xilreport/internal/database"
	xlog "github.com/nao1215/xilreport/internal/log"
	"github.com/nao1215/xilreport/internal/metrics"
	"github.com/nao1215/xilreport/internal/model"
	"github.com/nao1215/xilreport/internal/pathutil"
	"github.com/nao1215/xilreport/internal/pipeline"
	"github.com/nao1215/xilreport/internal/report"
	"github.com/nao1215/xilreport/internal/toolchain"
)

// getBoolFlag retrieves a bool flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getBoolFlag(cmd, "verbose")
}

// setupLogger creates the stderr logger selected by --verbose and
// --log-json and makes it the slog default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := newLogger(os.Stderr, getVerboseFlag(cmd), getBoolFlag(cmd, "log-json"))
	slog.SetDefault(logger)
	return logger
}

// newLogger creates a text or JSON logger writing to w.
func newLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return xlog.NewJSONLogger(w, verbose)
	}
	return xlog.NewLogger(w, verbose)
}

// loadProject loads the project file. An explicitly given path must
// exist; otherwise a missing file yields an empty project.
func loadProject(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return config.NewFile(), nil
	}

	project, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load project file %s: %w", path, err)
	}
	return project, nil
}

// addReportFlags registers the flags shared by commands that parse reports.
func addReportFlags(cmd *cobra.Command) {
	// Report location flags
	cmd.Flags().StringP("dir", "d", "",
		"Parse the single report in this directory that matches --pattern")
	cmd.Flags().StringP("pattern", "p", config.DefaultPattern,
		"File pattern used with --dir")
	cmd.Flags().StringP("timing", "t", "",
		"Timing report (*.twr) whose score is added to the summary")

	// Filter flags
	cmd.Flags().StringP("tool", "T", "",
		"Only show messages from this tool (e.g. Xst)")
	cmd.Flags().StringP("severity", "s", "",
		"Only show messages with this severity (e.g. WARNING)")
	cmd.Flags().IntP("number", "n", -1,
		"Only show messages with this number")

	// Processing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of reports parsed concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Project file path (default: .xilreport in current or home directory)")
	cmd.Flags().Bool("save", false,
		"Save each summary to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to this file path (creates directories if needed)")
	cmd.Flags().BoolP("all", "a", false,
		"List every occurrence in text output")
	cmd.Flags().BoolP("tee", "e", false,
		"With --output, also print the text summary to stdout")
	addMetricsFlag(cmd)
}

// addMetricsFlag registers --metrics-file.
func addMetricsFlag(cmd *cobra.Command) {
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics to this file (for the node_exporter textfile collector)")
}

// writeMetrics records the summaries and tool result into a metrics file
// when --metrics-file is set. result may be nil.
func writeMetrics(cmd *cobra.Command, toolName string, result *toolchain.Result, summaries ...*model.Summary) error {
	path, err := cmd.Flags().GetString("metrics-file")
	if err != nil || path == "" {
		return err
	}

	recorder := metrics.NewRecorder()
	if result != nil {
		recorder.ObserveRun(toolName, result)
	}
	for _, s := range summaries {
		recorder.ObserveSummary(s)
	}
	return recorder.WriteFile(path)
}

// buildConfig creates a Config from the report flags and arguments.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Reports = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	flags := cmd.Flags()

	if cfg.Dir, err = flags.GetString("dir"); err != nil {
		return nil, err
	}
	if cfg.Pattern, err = flags.GetString("pattern"); err != nil {
		return nil, err
	}
	if cfg.TimingReport, err = flags.GetString("timing"); err != nil {
		return nil, err
	}
	if cfg.FilterTool, err = flags.GetString("tool"); err != nil {
		return nil, err
	}
	if cfg.FilterSeverity, err = flags.GetString("severity"); err != nil {
		return nil, err
	}
	if flags.Changed("number") {
		number, err := flags.GetInt("number")
		if err != nil {
			return nil, err
		}
		cfg.FilterNumber = &number
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ShowAll, err = flags.GetBool("all"); err != nil {
		return nil, err
	}
	if cfg.Tee, err = flags.GetBool("tee"); err != nil {
		return nil, err
	}

	if cfg.Project, err = loadProject(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveReports returns the absolute paths of the reports to parse.
// Absolute paths keep history entries stable across working directories.
func resolveReports(cfg *config.Config) ([]string, error) {
	paths := make([]string, 0, len(cfg.Reports)+1)
	paths = append(paths, cfg.Reports...)

	if cfg.Dir != "" {
		found, err := pathutil.FindOne(cfg.Dir, cfg.Pattern)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found)
	}

	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		paths[i] = abs
	}
	return paths, nil
}

// parseReports runs every report through the default pipeline and
// returns their summaries in input order. Unreadable reports yield
// failed summaries rather than an error.
func parseReports(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]*model.Summary, error) {
	paths, err := resolveReports(cfg)
	if err != nil {
		return nil, err
	}

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	filter := cfg.FilterOptions()
	waivers := cfg.Project.WaiverKeys()
	factory := func() *pipeline.Pipeline {
		opts := []pipeline.DefaultPipelineOption{
			pipeline.WithPipelineFilter(filter...),
			pipeline.WithPipelineWaivers(waivers),
			pipeline.WithPipelineLogger(logger),
		}
		if db != nil {
			opts = append(opts, pipeline.WithPipelineDB(db))
		}
		return pipeline.NewDefaultPipeline(opts...)
	}

	jobs := make([]*pipeline.Job, len(paths))
	for i, p := range paths {
		jobs[i] = pipeline.NewJob(p)
	}
	if cfg.TimingReport != "" && len(jobs) == 1 {
		jobs[0].TimingPath = cfg.TimingReport
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	if _, err := bp.ProcessBatch(ctx, jobs); err != nil {
		return nil, err
	}

	summaries := make([]*model.Summary, len(jobs))
	for i, job := range jobs {
		summaries[i] = job.Result()
		if job.RunID != "" {
			logger.Debug("saved run", "report", job.Path, "run_id", job.RunID)
		}
	}
	return summaries, nil
}

// newWriter selects the report writer for the configured format.
func newWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.ShowAll))
	}
}

// openOutput returns the destination for report output: the configured
// file, created with owner-only permissions, or stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Output path is user-provided
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// writeSummaries writes every summary with the configured writer.
func writeSummaries(cmd *cobra.Command, cfg *config.Config, summaries []*model.Summary) error {
	output, closeOutput, err := openOutput(cmd, cfg.ReportFile)
	if err != nil {
		return err
	}

	w := newWriter(cfg, output)
	if cfg.Tee {
		w = report.NewMultiWriter(w, report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.ShowAll)))
	}
	for _, s := range summaries {
		if _, err := w.Write(s); err != nil {
			_ = closeOutput()
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return closeOutput()
}

// countFailed returns the number of summaries that could not be parsed.
func countFailed(summaries []*model.Summary) int {
	n := 0
	for _, s := range summaries {
		if s.Error != "" {
			n++
		}
	}
	return n
}
