package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/xilreport/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "xilreport"

	// DefaultPattern matches XST synthesis reports.
	DefaultPattern = "*.syr"

	// DefaultBatchSize is the number of reports parsed concurrently.
	// Parsing is I/O bound and reports are small, so a handful is plenty.
	DefaultBatchSize = 4

	// DefaultToolchainVersion is the only ISE release the tool layouts are
	// known for.
	DefaultToolchainVersion = "14.7"

	// DefaultToolTimeout bounds a single tool run. A full ISE build of a
	// mid-size design takes well under this.
	DefaultToolTimeout = 45 * time.Minute

	// DefaultFailOn is the severity that makes the check command fail.
	DefaultFailOn = "ERROR"
)

// Config holds the options of one xilreport invocation. It is populated
// from CLI flags and passed down explicitly rather than kept in globals.
type Config struct {
	// Reports are report file paths given on the command line.
	Reports []string

	// Dir, when set, is searched for a report matching Pattern.
	Dir string

	// Pattern is the glob used with Dir.
	Pattern string

	// FilterTool restricts output to one tool when non-empty.
	FilterTool string

	// FilterSeverity restricts output to one severity when non-empty.
	FilterSeverity string

	// FilterNumber restricts output to one message code when non-nil.
	FilterNumber *int

	// TimingReport is an optional *.twr file whose score is added to the summary.
	TimingReport string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ShowAll lists every occurrence of a message in text output instead
	// of the first one and its line numbers.
	ShowAll bool

	// BatchSize is the number of reports parsed concurrently.
	BatchSize int

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes output to this path instead of stdout.
	ReportFile string

	// Tee also prints the text summary to stdout while ReportFile receives
	// the selected format.
	Tee bool

	// SaveToDB stores each parsed summary in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/xilreport on Linux).
	DBDir string

	// ConfigFilePath is the explicit path of the project file, if any.
	ConfigFilePath string

	// Project holds settings loaded from the project file.
	Project *File
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Pattern:   DefaultPattern,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		Project:   NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for xilreport.
// On Linux: ~/.local/share/xilreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for xilreport.
// On Linux: ~/.config/xilreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Reports) == 0 && c.Dir == "" {
		return ErrNoReport
	}
	if c.Dir != "" && c.Pattern == "" {
		return ErrEmptyPattern
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.Tee && c.ReportFile == "" {
		return ErrTeeWithoutOutput
	}
	if c.FilterNumber != nil && *c.FilterNumber < 0 {
		return ErrInvalidNumber
	}
	if c.TimingReport != "" && c.reportCount() > 1 {
		return ErrTimingNeedsSingleReport
	}
	if c.Project != nil {
		if err := c.Project.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// reportCount is the number of reports this invocation will parse.
// --dir always resolves to exactly one file.
func (c *Config) reportCount() int {
	n := len(c.Reports)
	if c.Dir != "" {
		n++
	}
	return n
}

// FilterOptions converts the filter flags into model filter options.
func (c *Config) FilterOptions() []model.FilterOption {
	var opts []model.FilterOption
	if c.FilterTool != "" {
		opts = append(opts, model.WithTool(c.FilterTool))
	}
	if c.FilterSeverity != "" {
		opts = append(opts, model.WithSeverity(c.FilterSeverity))
	}
	if c.FilterNumber != nil {
		opts = append(opts, model.WithNumber(*c.FilterNumber))
	}
	return opts
}
