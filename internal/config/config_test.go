package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/xilreport/internal/model"
)

// TestNewConfig verifies that NewConfig returns a Config with the expected
// default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Pattern is *.syr", func(t *testing.T) {
		t.Parallel()
		if cfg.Pattern != "*.syr" {
			t.Errorf("expected Pattern to be '*.syr', got '%s'", cfg.Pattern)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default Project is empty", func(t *testing.T) {
		t.Parallel()
		if cfg.Project == nil || len(cfg.Project.Waivers) != 0 {
			t.Errorf("expected empty project file, got %+v", cfg.Project)
		}
	})
}

// TestConfigValidate tests the Validate method, one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Reports = []string{"top.syr"}
		return cfg
	}
	negative := -1

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{
			name:   "dir without reports is valid",
			modify: func(c *Config) { c.Reports = nil; c.Dir = "build" },
		},
		{
			name:    "no report",
			modify:  func(c *Config) { c.Reports = nil },
			wantErr: ErrNoReport,
		},
		{
			name:    "dir with empty pattern",
			modify:  func(c *Config) { c.Dir = "build"; c.Pattern = "" },
			wantErr: ErrEmptyPattern,
		},
		{
			name:    "zero batch size",
			modify:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "json and markdown",
			modify:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "tee without output",
			modify:  func(c *Config) { c.Tee = true },
			wantErr: ErrTeeWithoutOutput,
		},
		{
			name:   "tee with output",
			modify: func(c *Config) { c.Tee = true; c.ReportFile = "summary.md" },
		},
		{
			name:    "negative number filter",
			modify:  func(c *Config) { c.FilterNumber = &negative },
			wantErr: ErrInvalidNumber,
		},
		{
			name:   "timing with one report",
			modify: func(c *Config) { c.TimingReport = "top.twr" },
		},
		{
			name:    "timing with two reports",
			modify:  func(c *Config) { c.TimingReport = "top.twr"; c.Dir = "build" },
			wantErr: ErrTimingNeedsSingleReport,
		},
		{
			name: "invalid waiver in project file",
			modify: func(c *Config) {
				c.Project.Waivers = []Waiver{{Identity: "WARNING-Xst-2042"}}
			},
			wantErr: ErrInvalidWaiver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigFilterOptions(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if len(cfg.FilterOptions()) != 0 {
		t.Error("expected no filter options by default")
	}

	number := 2042
	cfg.FilterTool = "Xst"
	cfg.FilterSeverity = "WARNING"
	cfg.FilterNumber = &number

	f := model.NewFilter(cfg.FilterOptions()...)
	if !f.Match(model.Message{Tool: "Xst", Severity: "WARNING", Number: 2042}) {
		t.Error("expected matching message to pass")
	}
	if f.Match(model.Message{Tool: "Xst", Severity: "WARNING", Number: 737}) {
		t.Error("expected other number to be rejected")
	}
}

func TestFile(t *testing.T) {
	t.Parallel()

	t.Run("default FailOn is ERROR", func(t *testing.T) {
		t.Parallel()
		got := NewFile().FailOnSeverities()
		if len(got) != 1 || got[0] != "ERROR" {
			t.Errorf("unexpected FailOn %v", got)
		}
	})

	t.Run("WaiverKeys returns identities in order", func(t *testing.T) {
		t.Parallel()
		f := &File{Waivers: []Waiver{
			{Identity: "WARNING:Xst:2042", Reason: "unused debug signals"},
			{Identity: "INFO:Map:1"},
		}}
		got := f.WaiverKeys()
		if len(got) != 2 || got[0] != "WARNING:Xst:2042" || got[1] != "INFO:Map:1" {
			t.Errorf("unexpected keys %v", got)
		}
	})

	t.Run("negative timeout is invalid", func(t *testing.T) {
		t.Parallel()
		f := &File{Toolchain: ToolchainConfig{Timeout: -time.Second}}
		if !errors.Is(f.Validate(), ErrInvalidToolTimeout) {
			t.Error("expected ErrInvalidToolTimeout")
		}
	})
}

func TestToolchainConfig(t *testing.T) {
	t.Run("explicit install dir wins", func(t *testing.T) {
		tc := ToolchainConfig{InstallDir: "/opt/Xilinx/14.7", InstallDirEnv: "XILREPORT_TEST_ISE"}
		if got := tc.ResolveInstallDir(); got != "/opt/Xilinx/14.7" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("install dir from environment variable", func(t *testing.T) {
		t.Setenv("XILREPORT_TEST_ISE", `"/tools/Xilinx/14.7"`)
		tc := ToolchainConfig{InstallDirEnv: "XILREPORT_TEST_ISE"}
		if got := tc.ResolveInstallDir(); got != "/tools/Xilinx/14.7" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		var tc ToolchainConfig
		if tc.ResolveInstallDir() != "" {
			t.Error("expected empty install dir")
		}
		if tc.ResolveVersion() != DefaultToolchainVersion {
			t.Errorf("got version %q", tc.ResolveVersion())
		}
		if tc.ResolveTimeout() != DefaultToolTimeout {
			t.Errorf("got timeout %v", tc.ResolveTimeout())
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a complete file", func(t *testing.T) {
		t.Parallel()

		content := `toolchain:
  installDir: /opt/Xilinx/14.7
  version: "14.7"
  timeout: 30m
  env:
    XIL_NO_WEBTALK: "1"
waivers:
  - identity: WARNING:Xst:2042
    reason: debug signals are left unconnected
failOn:
  - ERROR
  - WARNING
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Toolchain.InstallDir != "/opt/Xilinx/14.7" {
			t.Errorf("unexpected install dir %q", cf.Toolchain.InstallDir)
		}
		if cf.Toolchain.Timeout != 30*time.Minute {
			t.Errorf("unexpected timeout %v", cf.Toolchain.Timeout)
		}
		if cf.Toolchain.Env["XIL_NO_WEBTALK"] != "1" {
			t.Errorf("unexpected env %v", cf.Toolchain.Env)
		}
		if len(cf.Waivers) != 1 || cf.Waivers[0].Identity != "WARNING:Xst:2042" {
			t.Errorf("unexpected waivers %+v", cf.Waivers)
		}
		if len(cf.FailOnSeverities()) != 2 {
			t.Errorf("unexpected failOn %v", cf.FailOn)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("waivers: [unterminated"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("invalid waiver returns ErrInvalidWaiver", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("waivers:\n  - identity: Xst-2042\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		_, err := LoadConfigFile(path)
		if !errors.Is(err, ErrInvalidWaiver) {
			t.Errorf("expected ErrInvalidWaiver, got %v", err)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("unexpected data dir %q", XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("unexpected config dir %q", XDGConfigDir())
	}
}
