package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// File.Validate. Callers can match them with errors.Is.
var (
	// ErrNoReport is returned when neither a report path nor --dir is given.
	ErrNoReport = errors.New("no report specified: provide a report path or use --dir")

	// ErrEmptyPattern is returned when --dir is used with an empty pattern.
	ErrEmptyPattern = errors.New("empty pattern: --dir requires a file pattern")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrTeeWithoutOutput is returned when --tee is used without --output.
	ErrTeeWithoutOutput = errors.New("--tee requires --output")

	// ErrInvalidNumber is returned for a negative message number filter.
	ErrInvalidNumber = errors.New("invalid message number: must be non-negative")

	// ErrTimingNeedsSingleReport is returned when --timing is combined with
	// more than one report.
	ErrTimingNeedsSingleReport = errors.New("--timing requires exactly one report")

	// ErrInvalidWaiver is returned when a waiver is not a valid identity key.
	ErrInvalidWaiver = errors.New("invalid waiver: expected <SEVERITY>:<TOOL>:<NUMBER>")

	// ErrInvalidToolTimeout is returned for a negative toolchain timeout.
	ErrInvalidToolTimeout = errors.New("invalid toolchain timeout: must be non-negative")
)
