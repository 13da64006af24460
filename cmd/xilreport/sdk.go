package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/xilreport/internal/toolchain"
)

// NewData2MemCmd creates the data2mem command.
func NewData2MemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data2mem",
		Short: "Merge an ELF image into a bitstream",
		Long: `Data2mem runs the ISE data2mem tool to initialise the block RAMs of a
bitstream with a compiled application, producing a bitstream that boots
the software directly.

Examples:
  xilreport data2mem --bmm hw/system_bd.bmm --bit hw/system.bit \
    --elf app/Release/app.elf -o download.bit`,
		Args: cobra.NoArgs,
		RunE: runData2MemCmd,
	}

	addToolchainFlags(cmd)
	cmd.Flags().String("bmm", "",
		"Block memory map of the hardware design (.bmm)")
	cmd.Flags().String("bit", "",
		"Hardware bitstream (.bit)")
	cmd.Flags().String("elf", "",
		"Application to load into block RAM (.elf)")
	cmd.Flags().StringP("output", "o", "",
		"Merged bitstream to write")

	return cmd
}

// runData2MemCmd executes the data2mem command.
func runData2MemCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	var opts toolchain.Data2MemOptions
	var err error
	if opts.BMM, err = flags.GetString("bmm"); err != nil {
		return err
	}
	if opts.Bitstream, err = flags.GetString("bit"); err != nil {
		return err
	}
	if opts.ELF, err = flags.GetString("elf"); err != nil {
		return err
	}
	if opts.Output, err = flags.GetString("output"); err != nil {
		return err
	}

	tool, err := toolchain.Data2Mem(opts)
	if err != nil {
		return err
	}
	return runTool(cmd, tool, false)
}

// NewLibgenCmd creates the libgen command.
func NewLibgenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libgen",
		Short: "Generate a board support package",
		Long: `Libgen runs the EDK libgen tool in a BSP project directory to build the
board support package for one processor. The hardware description is the
single *.xml file in --hw unless --system names it. The EDK tools are put
on PATH automatically.

The archiver notice libgen prints to stderr for PowerPC targets is expected
and does not fail the run.

Examples:
  xilreport libgen --hw sdk/hw --bsp sdk/bsp --processor microblaze_0`,
		Args: cobra.NoArgs,
		RunE: runLibgenCmd,
	}

	addToolchainFlags(cmd)
	cmd.Flags().String("hw", "",
		"Hardware project directory holding <system>.xml")
	cmd.Flags().String("bsp", "",
		"BSP project directory holding <system>.mss")
	cmd.Flags().StringP("processor", "P", "",
		"Processor instance, e.g. microblaze_0")
	cmd.Flags().String("system", "",
		"Hardware description name without extension (default: the single *.xml in --hw)")

	return cmd
}

// runLibgenCmd executes the libgen command.
func runLibgenCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	var opts toolchain.LibgenOptions
	var err error
	if opts.HardwareDir, err = flags.GetString("hw"); err != nil {
		return err
	}
	if opts.BSPDir, err = flags.GetString("bsp"); err != nil {
		return err
	}
	if opts.Processor, err = flags.GetString("processor"); err != nil {
		return err
	}
	if opts.System, err = flags.GetString("system"); err != nil {
		return err
	}

	tool, err := toolchain.Libgen(opts)
	if err != nil {
		return err
	}
	return runTool(cmd, tool, true)
}
