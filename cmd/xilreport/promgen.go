package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/xilreport/internal/toolchain"
)

// NewPromgenCmd creates the promgen command.
func NewPromgenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promgen",
		Short: "Generate a PROM image from bitstreams",
		Long: `Promgen runs the ISE promgen tool to pack one or more bitstreams into a
PROM file. Each --bit flag places a bitstream at a load address.

Supported formats: ` + strings.Join(toolchain.PromFormats, ", ") + `

Examples:
  # Binary image with one bitstream at address 0
  xilreport promgen -o image.bin --bit 0=build/top.bit

  # MCS file for a Xilinx PROM with two images
  xilreport promgen -f mcs -x xcf32p -o image.mcs --bit 0=golden.bit --bit 200000=update.bit`,
		Args: cobra.NoArgs,
		RunE: runPromgenCmd,
	}

	addToolchainFlags(cmd)
	cmd.Flags().StringP("output", "o", "",
		"Output PROM file")
	cmd.Flags().StringToString("bit", nil,
		"Bitstream at a load address, as ADDRESS=FILE (repeatable)")
	cmd.Flags().StringP("device", "x", "",
		"Xilinx PROM device")
	cmd.Flags().StringP("format", "f", "bin",
		"Output format")
	cmd.Flags().Bool("no-byte-swap", false,
		"Disable bit swapping")

	return cmd
}

// runPromgenCmd executes the promgen command.
func runPromgenCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	var opts toolchain.PromgenOptions
	var err error
	if opts.Output, err = flags.GetString("output"); err != nil {
		return err
	}
	if opts.Bitstreams, err = flags.GetStringToString("bit"); err != nil {
		return err
	}
	if opts.Device, err = flags.GetString("device"); err != nil {
		return err
	}
	if opts.Format, err = flags.GetString("format"); err != nil {
		return err
	}
	if opts.DisableByteSwap, err = flags.GetBool("no-byte-swap"); err != nil {
		return err
	}

	tool, err := toolchain.Promgen(opts)
	if err != nil {
		return err
	}
	return runTool(cmd, tool, false)
}

// runTool runs a command built by the toolchain package and prints its
// outcome. The builder's timeout is kept unless --timeout is given.
func runTool(cmd *cobra.Command, tool toolchain.Command, requireEDK bool) error {
	logger := setupLogger(cmd)
	runner, timeout, err := newRunner(cmd, logger, requireEDK)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		tool.Timeout = timeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, tool)
	if err != nil {
		return err
	}
	return reportOutcome(cmd.OutOrStdout(), tool, result)
}
