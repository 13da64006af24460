package toolchain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nao1215/xilreport/internal/pathutil"
)

// LibgenTimeout bounds a BSP generation run.
const LibgenTimeout = 2 * time.Minute

// libgenExpectedStderr matches the archiver notice libgen prints to stderr
// for PowerPC targets, e.g. "powerpc-eabi-ar: creating ../../../lib/libxil.a".
var libgenExpectedStderr = regexp.MustCompile(`[^\n]*powerpc-eabi-ar[^\n]+creating[^\n]+libxil\.a\n?`)

// Data2MemOptions describes a bitstream to be merged with software.
type Data2MemOptions struct {
	// BMM is the block memory map (.bmm) of the hardware design.
	BMM string

	// Bitstream is the hardware-only bitstream (.bit).
	Bitstream string

	// ELF is the compiled application.
	ELF string

	// Output is the merged bitstream to write.
	Output string
}

// Data2Mem builds the data2mem command that initialises the block RAMs of a
// bitstream with an ELF image.
func Data2Mem(opts Data2MemOptions) (Command, error) {
	for _, in := range []struct{ name, value string }{
		{"bmm file", opts.BMM},
		{"bitstream", opts.Bitstream},
		{"elf file", opts.ELF},
		{"output file", opts.Output},
	} {
		if in.value == "" {
			return Command{}, fmt.Errorf("%w: %s", ErrMissingInput, in.name)
		}
	}

	return Command{
		Name: "data2mem",
		Args: []string{
			"-bm", opts.BMM,
			"-bt", opts.Bitstream,
			"-bd", opts.ELF,
			"-o", "b", opts.Output,
		},
		Timeout:     DefaultTimeout,
		CheckStderr: true,
	}, nil
}

// LibgenOptions describes a board support package to generate.
type LibgenOptions struct {
	// HardwareDir holds the exported hardware description <system>.xml.
	HardwareDir string

	// BSPDir is the BSP project directory holding <system>.mss. libgen runs
	// there.
	BSPDir string

	// Processor is the processor instance, e.g. "microblaze_0".
	Processor string

	// System is the hardware description name without extension. When
	// empty, the single *.xml file in HardwareDir is used.
	System string
}

// Libgen builds the libgen command that generates a BSP for one processor.
func Libgen(opts LibgenOptions) (Command, error) {
	if opts.HardwareDir == "" {
		return Command{}, fmt.Errorf("%w: hardware directory", ErrMissingInput)
	}
	if opts.BSPDir == "" {
		return Command{}, fmt.Errorf("%w: bsp directory", ErrMissingInput)
	}
	if opts.Processor == "" {
		return Command{}, fmt.Errorf("%w: processor instance", ErrMissingInput)
	}

	system := opts.System
	if system == "" {
		xml, err := pathutil.FindOne(opts.HardwareDir, "*.xml")
		if err != nil {
			return Command{}, fmt.Errorf("failed to find hardware description: %w", err)
		}
		base := filepath.Base(xml)
		system = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return Command{
		Name: "libgen",
		Args: []string{
			"-hw", filepath.Join(opts.HardwareDir, system+".xml"),
			"-pe", opts.Processor,
			system + ".mss",
		},
		Dir:                    opts.BSPDir,
		Timeout:                LibgenTimeout,
		CheckStderr:            true,
		ExpectedStderrPatterns: []*regexp.Regexp{libgenExpectedStderr},
	}, nil
}
