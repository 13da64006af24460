package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [report...]",
		Short: "Parse reports and print their messages grouped by identity",
		Long: `Parse reads ISE report files and groups their messages by identity.

Every line of the form SEVERITY:TOOL:NUMBER - TEXT is a message, for example:
  WARNING:Xst:2042 - Unit top: 1 internal tristate is replaced by logic

Other lines are ignored. Messages with the same severity, tool and number
share an identity. Identities listed as waivers in the project file are
hidden.

Examples:
  # Parse a synthesis report
  xilreport parse build/top.syr

  # Parse the only *.syr file in a directory
  xilreport parse --dir build

  # Only show XST warnings
  xilreport parse -T Xst -s WARNING build/top.syr

  # Add the timing score and write Markdown for a CI job summary
  xilreport parse -t build/top.twr -m -o summary.md build/top.syr

  # Keep the result for "xilreport history"
  xilreport parse --save build/top.syr`,
		Args: cobra.ArbitraryArgs,
		RunE: runParseCmd,
	}

	addReportFlags(cmd)

	return cmd
}

// runParseCmd executes the parse command.
func runParseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
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

	if err := writeSummaries(cmd, cfg, summaries); err != nil {
		return err
	}
	if err := writeMetrics(cmd, "", nil, summaries...); err != nil {
		return err
	}

	if failed := countFailed(summaries); failed > 0 {
		return fmt.Errorf("%d of %d report(s) could not be parsed", failed, len(summaries))
	}
	return nil
}
