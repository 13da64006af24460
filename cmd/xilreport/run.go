package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/xilreport/internal/config"
	"github.com/nao1215/xilreport/internal/model"
	"github.com/nao1215/xilreport/internal/parser"
	"github.com/nao1215/xilreport/internal/report"
	"github.com/nao1215/xilreport/internal/toolchain"
)

// errBuildFailed is returned when a tool run does not succeed.
var errBuildFailed = errors.New("build failed")

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] -- <tool> [args...]",
		Short: "Run an ISE tool and classify how it ended",
		Long: `Run executes a toolchain program with the environment from the project file
and reports one of these outcomes:

  success                  exit code 0, no ERROR: lines, marker present
  tool reported error      exit code 0 but ERROR: lines (or stderr) in output
  process failed           non-zero exit code
  success marker missing   --marker was given and never printed

The child environment gets XILINX and PATH for the configured installation;
the environment of xilreport itself is never modified.

Examples:
  # Run XST and keep its log
  xilreport run --log build/xst.log -- xst -ifn top.xst

  # Require a marker and summarize the messages in the log
  xilreport run --marker "Process \"Synthesize\" completed" --log build/xst.log --summary -- xst -ifn top.xst`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRunCmd,
	}

	addToolchainFlags(cmd)
	cmd.Flags().StringP("workdir", "w", "",
		"Working directory for the tool")
	cmd.Flags().StringP("marker", "M", "",
		"Text that must appear in stdout for the run to succeed")
	cmd.Flags().Bool("check-stderr", false,
		"Treat any stderr output as a tool error")
	cmd.Flags().StringSlice("expect-stderr", nil,
		"Stderr text that is expected and ignored by --check-stderr")
	cmd.Flags().StringP("log", "l", "",
		"Write the tool's stdout to this file")
	cmd.Flags().Bool("summary", false,
		"Print a summary of the messages in the tool output")
	addMetricsFlag(cmd)

	return cmd
}

// addToolchainFlags registers the flags shared by commands that run tools.
func addToolchainFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Project file path (default: .xilreport in current or home directory)")
	cmd.Flags().String("install-dir", "",
		"Toolchain installation root (overrides the project file)")
	cmd.Flags().Duration("timeout", 0,
		"Timeout for the tool run (default: from the project file, or "+config.DefaultToolTimeout.String()+")")
	cmd.Flags().Bool("edk", false,
		"Also put the EDK tools (libgen, embedded compilers) on PATH")
}

// newRunner builds a toolchain runner from the project file and flags.
// It returns the configured timeout alongside. requireEDK enables the EDK
// directories regardless of --edk.
func newRunner(cmd *cobra.Command, logger *slog.Logger, requireEDK bool) (*toolchain.Runner, time.Duration, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, 0, err
	}
	installDir, err := cmd.Flags().GetString("install-dir")
	if err != nil {
		return nil, 0, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, 0, err
	}
	edk, err := cmd.Flags().GetBool("edk")
	if err != nil {
		return nil, 0, err
	}

	project, err := loadProject(configPath)
	if err != nil {
		return nil, 0, err
	}
	tc := project.Toolchain
	if installDir != "" {
		tc.InstallDir = installDir
	}
	if timeout <= 0 {
		timeout = tc.ResolveTimeout()
	}

	env := toolchain.Environment{
		InstallDir: tc.ResolveInstallDir(),
		Version:    tc.ResolveVersion(),
		EDK:        edk || requireEDK,
		Extra:      tc.Env,
	}
	runner, err := toolchain.NewRunner(env, toolchain.WithLogger(logger))
	if err != nil {
		return nil, 0, fmt.Errorf("toolchain configuration error: %w", err)
	}
	return runner, timeout, nil
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd)

	runner, timeout, err := newRunner(cmd, logger, false)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	tool := toolchain.Command{
		Name:    args[0],
		Args:    args[1:],
		Timeout: timeout,
	}
	if tool.Dir, err = flags.GetString("workdir"); err != nil {
		return err
	}
	if tool.SuccessMarker, err = flags.GetString("marker"); err != nil {
		return err
	}
	if tool.CheckStderr, err = flags.GetBool("check-stderr"); err != nil {
		return err
	}
	if tool.ExpectedStderr, err = flags.GetStringSlice("expect-stderr"); err != nil {
		return err
	}
	logPath, err := flags.GetString("log")
	if err != nil {
		return err
	}
	summarize, err := flags.GetBool("summary")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, tool)
	if err != nil {
		return err
	}

	if logPath != "" {
		if err := result.WriteLog(logPath); err != nil {
			return err
		}
	}

	name := logPath
	if name == "" {
		name = tool.Name
	}
	summary := model.NewSummary(parser.ParseBytes(name, []byte(result.Stdout)))

	out := cmd.OutOrStdout()
	if summarize {
		if _, err := report.NewSimpleWriter(out).Write(summary); err != nil {
			return err
		}
	}
	if err := writeMetrics(cmd, tool.Name, result, summary); err != nil {
		return err
	}

	return reportOutcome(out, tool, result)
}

// reportOutcome prints the outcome line and returns errBuildFailed for
// anything but success.
func reportOutcome(out io.Writer, tool toolchain.Command, result *toolchain.Result) error {
	fmt.Fprintf(out, "%s: %s (exit code %d, %s)\n",
		tool.Name, result.Outcome, result.ExitCode, result.Duration.Round(time.Millisecond))
	if result.Succeeded() {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", errBuildFailed, result.Outcome, result.Details)
}
