package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/xilreport/internal/config"
	"github.com/nao1215/xilreport/internal/database"
	"github.com/nao1215/xilreport/internal/model"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [report]",
		Short: "Show saved parse runs and compare them",
		Long: `History lists the runs saved with "xilreport parse --save".

Without arguments it lists every report that has saved runs. With a report
path it lists that report's runs, newest first.

Examples:
  # List reports with saved runs
  xilreport history

  # List runs of one report
  xilreport history build/top.syr

  # Show identities that appeared or disappeared since the previous run
  xilreport history --compare build/top.syr

  # Print a saved run as Markdown
  xilreport history --run-id 3f2b... -m`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("compare", "C", false,
		"Compare the latest two runs of the report")
	cmd.Flags().StringP("run-id", "i", "",
		"Print the saved run with this ID")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown when printing a saved run")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	compare, err := flags.GetBool("compare")
	if err != nil {
		return err
	}
	runID, err := flags.GetString("run-id")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}

	// Validate arguments before opening the database.
	var reportPath string
	if len(args) > 0 {
		if reportPath, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
	}
	if compare && reportPath == "" {
		return errors.New("--compare requires a report path")
	}

	setupLogger(cmd)

	out := cmd.OutOrStdout()

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No saved runs found.")
		fmt.Fprintln(out, "\nUse 'xilreport parse --save <report>' to save one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case runID != "":
		return showRun(ctx, cmd, db, cfg, runID)
	case compare:
		return compareRuns(ctx, out, db, reportPath, cfg.JSONReport)
	case reportPath != "":
		return listRuns(ctx, out, db, reportPath)
	default:
		return listReports(ctx, out, db)
	}
}

// listReports lists every report that has saved runs.
func listReports(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	reports, err := db.ListReports(ctx)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(out, "No saved runs found.")
		fmt.Fprintln(out, "\nUse 'xilreport parse --save <report>' to save one.")
		return nil
	}

	fmt.Fprintf(out, "Reports with saved runs (%d):\n\n", len(reports))
	for _, r := range reports {
		fmt.Fprintf(out, "  • %s\n", r)
	}
	fmt.Fprintln(out, "\nUse 'xilreport history <report>' to list its runs.")
	return nil
}

// listRuns lists the runs of one report, newest first.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, reportPath string) error {
	runs, err := db.GetHistory(ctx, reportPath)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No saved runs found for %s\n", reportPath)
		return nil
	}

	fmt.Fprintf(out, "Runs of %s (%d):\n\n", reportPath, len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %-8s  %-7s  %s\n", "Run ID", "Date", "Digest", "Timing", "Messages")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 100))

	for _, run := range runs {
		timing := "-"
		if run.TimingScore != nil {
			timing = strconv.Itoa(*run.TimingScore)
		}
		fmt.Fprintf(out, "  %-36s  %-19s  %-8s  %-7s  %s\n",
			run.RunID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			shortDigest(run.Digest),
			timing,
			formatSeverityCounts(run.SeverityCounts),
		)
	}

	fmt.Fprintln(out, "\nUse 'xilreport history --compare <report>' to compare the latest two runs.")
	return nil
}

// showRun prints one saved run with the selected writer.
func showRun(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, cfg *config.Config, runID string) error {
	summary, err := db.GetByID(ctx, runID)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("run not found: %s", runID)
	}
	return writeSummaries(cmd, cfg, []*model.Summary{summary})
}

// compareRuns compares the identity counts of the latest two runs.
func compareRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, reportPath string, jsonOutput bool) error {
	runs, err := db.GetHistory(ctx, reportPath)
	if err != nil {
		return err
	}
	if len(runs) < 2 {
		return fmt.Errorf("need at least two saved runs of %s to compare (found %d)", reportPath, len(runs))
	}

	before, err := db.IdentityCounts(ctx, runs[1].RunID)
	if err != nil {
		return err
	}
	after, err := db.IdentityCounts(ctx, runs[0].RunID)
	if err != nil {
		return err
	}
	cmp := model.CompareIdentityCounts(before, after)

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Report    string           `json:"report"`
			Before    string           `json:"before"`
			After     string           `json:"after"`
			Changes   model.Comparison `json:"changes"`
			Unchanged bool             `json:"unchanged"`
		}{reportPath, runs[1].RunID, runs[0].RunID, cmp, !cmp.HasChanges()})
	}

	fmt.Fprintf(out, "Comparing runs of %s\n", reportPath)
	fmt.Fprintf(out, "  before: %s (%s)\n", runs[1].RunID, runs[1].Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  after:  %s (%s)\n\n", runs[0].RunID, runs[0].Timestamp.Local().Format("2006-01-02 15:04:05"))

	if runs[0].Digest != "" && runs[0].Digest == runs[1].Digest {
		fmt.Fprintln(out, "The report file did not change between the runs.")
	}
	if !cmp.HasChanges() {
		fmt.Fprintln(out, "No changes.")
		return nil
	}

	writeDeltas(out, "New", cmp.Added, func(d model.IdentityDelta) string {
		return fmt.Sprintf("x%d", d.After)
	})
	writeDeltas(out, "Resolved", cmp.Resolved, func(d model.IdentityDelta) string {
		return fmt.Sprintf("x%d", d.Before)
	})
	writeDeltas(out, "Changed", cmp.Changed, func(d model.IdentityDelta) string {
		return fmt.Sprintf("x%d -> x%d", d.Before, d.After)
	})
	return nil
}

func writeDeltas(out io.Writer, title string, deltas []model.IdentityDelta, format func(model.IdentityDelta) string) {
	if len(deltas) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", title, len(deltas))
	for _, d := range deltas {
		fmt.Fprintf(out, "  %-30s %s\n", d.Identity, format(d))
	}
	fmt.Fprintln(out)
}

// formatSeverityCounts renders counts as "ERROR:1 WARNING:3".
func formatSeverityCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "No messages"
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	model.SortSeverities(labels)

	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = fmt.Sprintf("%s:%d", label, counts[label])
	}
	return strings.Join(parts, " ")
}

// shortDigest returns the first eight hex digits of a digest.
func shortDigest(digest string) string {
	if digest == "" {
		return "-"
	}
	if len(digest) > 8 {
		return digest[:8]
	}
	return digest
}
