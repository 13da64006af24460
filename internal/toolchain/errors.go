package toolchain

import "errors"

var (
	// ErrTimeout is returned when a command does not finish within its timeout.
	ErrTimeout = errors.New("command timed out")

	// ErrUnsupportedVersion is returned for toolchain versions other than the
	// supported ones.
	ErrUnsupportedVersion = errors.New("unsupported toolchain version")

	// ErrUnsupportedPlatform is returned when no binary directory is known for
	// the target operating system.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrEmptyCommand is returned when a Command has no executable name.
	ErrEmptyCommand = errors.New("empty command")

	// ErrInvalidPromFormat is returned for an unknown PROM file format.
	ErrInvalidPromFormat = errors.New("invalid PROM file format")

	// ErrNoBitstreams is returned when a PROM image has no bitstreams.
	ErrNoBitstreams = errors.New("no bitstreams given")

	// ErrNoPromOutput is returned when a PROM image has no output file.
	ErrNoPromOutput = errors.New("no PROM output file given")

	// ErrMissingInput is returned when a command builder lacks a required
	// file or name.
	ErrMissingInput = errors.New("missing required input")
)
