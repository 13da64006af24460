package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/xilreport/internal/model"
)

// errCheckFailed is returned when a report contains failing messages.
var errCheckFailed = errors.New("check failed")

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [report...]",
		Short: "Fail when reports contain unwaived messages of a failing severity",
		Long: `Check parses reports like "parse" and exits with a non-zero status when any
shown message has a failing severity. Waived identities never fail the check.

The failing severities come from failOn in the project file, default ERROR.
Use --fail-on to override them on the command line.

Examples:
  # Fail on errors in the synthesis report
  xilreport check build/top.syr

  # Also fail on warnings
  xilreport check --fail-on ERROR,WARNING build/top.syr

  # Check the report in the build directory and write a Markdown summary
  xilreport check --dir build -m -o summary.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	addReportFlags(cmd)
	cmd.Flags().StringSliceP("fail-on", "F", nil,
		"Severities that fail the check (default: failOn from the project file, or ERROR)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not print the report, only the check result")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	failOn, err := cmd.Flags().GetStringSlice("fail-on")
	if err != nil {
		return err
	}
	if len(failOn) > 0 {
		cfg.Project.FailOn = failOn
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := parseReports(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if !quiet {
		if err := writeSummaries(cmd, cfg, summaries); err != nil {
			return err
		}
	}

	if err := writeMetrics(cmd, "", nil, summaries...); err != nil {
		return err
	}

	severities := cfg.Project.FailOnSeverities()
	return evaluateCheck(summaries, severities)
}

// evaluateCheck returns an error wrapping errCheckFailed when any summary
// failed to parse or shows a message with one of the given severities.
func evaluateCheck(summaries []*model.Summary, severities []string) error {
	severities = uniqueSeverities(severities)
	failing := 0
	for _, s := range summaries {
		for _, sev := range severities {
			failing += s.Count(sev)
		}
	}
	failed := countFailed(summaries)

	switch {
	case failed > 0 && failing > 0:
		return fmt.Errorf("%w: %d report(s) could not be parsed, %d message(s) with severity %s",
			errCheckFailed, failed, failing, strings.Join(severities, "/"))
	case failed > 0:
		return fmt.Errorf("%w: %d report(s) could not be parsed", errCheckFailed, failed)
	case failing > 0:
		return fmt.Errorf("%w: %d message(s) with severity %s",
			errCheckFailed, failing, strings.Join(severities, "/"))
	}
	return nil
}

// uniqueSeverities drops repeated severities, keeping the first occurrence.
func uniqueSeverities(severities []string) []string {
	seen := make(map[string]struct{}, len(severities))
	unique := make([]string, 0, len(severities))
	for _, sev := range severities {
		if _, ok := seen[sev]; ok {
			continue
		}
		seen[sev] = struct{}{}
		unique = append(unique, sev)
	}
	return unique
}
