package toolchain

import (
	"fmt"
	"slices"
	"sort"
)

// PromFormats lists the output formats promgen accepts.
var PromFormats = []string{"mcs", "exo", "hex", "tek", "bin", "ieee1532", "ufp"}

// PromgenOptions describes a PROM image to generate.
type PromgenOptions struct {
	// Output is the name of the generated file.
	Output string

	// Bitstreams maps a load address (as promgen expects it, e.g. "0") to
	// the bitstream written there.
	Bitstreams map[string]string

	// Device is the Xilinx PROM device; only needed for Xilinx PROMs.
	Device string

	// Format is the output format; defaults to "bin".
	Format string

	// DisableByteSwap passes -b.
	DisableByteSwap bool
}

// Promgen builds the promgen command for opts. Addresses are emitted in
// sorted order so the command line is reproducible.
func Promgen(opts PromgenOptions) (Command, error) {
	format := opts.Format
	if format == "" {
		format = "bin"
	}
	if !slices.Contains(PromFormats, format) {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidPromFormat, format)
	}
	if len(opts.Bitstreams) == 0 {
		return Command{}, ErrNoBitstreams
	}
	if opts.Output == "" {
		return Command{}, ErrNoPromOutput
	}

	var args []string
	if opts.Device != "" {
		args = append(args, "-x", opts.Device)
	}
	if opts.DisableByteSwap {
		args = append(args, "-b")
	}
	args = append(args, "-w", "-p", format, "-o", opts.Output)

	addrs := make([]string, 0, len(opts.Bitstreams))
	for addr := range opts.Bitstreams {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	for _, addr := range addrs {
		args = append(args, "-u", addr, opts.Bitstreams[addr])
	}

	return Command{
		Name:        "promgen",
		Args:        args,
		Timeout:     DefaultTimeout,
		CheckStderr: true,
	}, nil
}
