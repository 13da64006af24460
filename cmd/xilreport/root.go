package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for xilreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xilreport",
		Short: "Parse and check Xilinx ISE synthesis reports",
		Long: `xilreport parses the reports written by the Xilinx ISE tools (XST, NGDBuild,
MAP, PAR, ...) into structured messages of the form SEVERITY:TOOL:NUMBER.

It groups messages by identity, filters them, renders text, JSON or Markdown
summaries, keeps a history of parsed reports and fails CI builds when
unwaived errors appear.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	cmd.AddCommand(NewParseCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewPromgenCmd())
	cmd.AddCommand(NewData2MemCmd())
	cmd.AddCommand(NewLibgenCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
