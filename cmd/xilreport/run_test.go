package main

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/xilreport/internal/toolchain"
)

// TestRunRunCmd runs small shell commands through the run command.
func TestRunRunCmd(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	t.Run("reports success", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "run", "-c", emptyProject(t), "--", "sh", "-c", "echo synthesis done")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "sh: success (exit code 0") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("tool reported error writes log and summary", func(t *testing.T) {
		t.Parallel()

		logPath := filepath.Join(t.TempDir(), "logs", "xst.log")
		out, err := execute(t, "run", "-c", emptyProject(t), "--log", logPath, "--summary", "--",
			"sh", "-c", "echo 'ERROR:Xst:899 - bad port'; echo 'WARNING:Xst:2042 - tristate'")
		if !errors.Is(err, errBuildFailed) {
			t.Fatalf("expected errBuildFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), toolchain.OutcomeToolReportedError.String()) {
			t.Errorf("expected outcome in error, got %v", err)
		}
		if !strings.Contains(out, "[ERROR:Xst:899] x1") {
			t.Errorf("expected message summary, got:\n%s", out)
		}

		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("expected log file: %v", err)
		}
		if !strings.Contains(string(content), "ERROR:Xst:899 - bad port") {
			t.Errorf("unexpected log content %q", content)
		}
	})

	t.Run("non-zero exit is a process failure", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "run", "-c", emptyProject(t), "--", "sh", "-c", "exit 3")
		if !errors.Is(err, errBuildFailed) {
			t.Fatalf("expected errBuildFailed, got %v", err)
		}
		if !strings.Contains(out, "process failed (exit code 3") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("missing marker", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "run", "-c", emptyProject(t), "--marker", "completed successfully", "--",
			"sh", "-c", "echo started")
		if !errors.Is(err, errBuildFailed) {
			t.Fatalf("expected errBuildFailed, got %v", err)
		}
		if !strings.Contains(out, toolchain.OutcomeMarkerMissing.String()) {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("metrics file records the outcome", func(t *testing.T) {
		t.Parallel()

		metricsPath := filepath.Join(t.TempDir(), "metrics", "run.prom")
		_, err := execute(t, "run", "-c", emptyProject(t), "--metrics-file", metricsPath, "--",
			"sh", "-c", "echo 'WARNING:Xst:2042 - tristate'")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(metricsPath)
		if err != nil {
			t.Fatalf("expected metrics file: %v", err)
		}
		for _, want := range []string{
			`xilreport_tool_runs_total{outcome="success",tool="sh"} 1`,
			`xilreport_report_messages{report="sh",severity="WARNING"} 1`,
		} {
			if !strings.Contains(string(content), want) {
				t.Errorf("metrics missing %q:\n%s", want, content)
			}
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "run", "-c", emptyProject(t), "--timeout", "100ms", "--", "sh", "-c", "sleep 30")
		if !errors.Is(err, toolchain.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("unsupported toolchain version", func(t *testing.T) {
		t.Parallel()

		project := writeFile(t, t.TempDir(), "project.yaml",
			"toolchain:\n  installDir: /opt/Xilinx/13.4\n  version: \"13.4\"\n")
		_, err := execute(t, "run", "-c", project, "--", "xst")
		if !errors.Is(err, toolchain.ErrUnsupportedVersion) {
			t.Errorf("expected ErrUnsupportedVersion, got %v", err)
		}
	})
}

// TestRunPromgenCmd tests argument validation of the promgen command.
func TestRunPromgenCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no bitstreams", []string{"promgen", "-o", "image.bin"}, toolchain.ErrNoBitstreams},
		{"no output", []string{"promgen", "--bit", "0=top.bit"}, toolchain.ErrNoPromOutput},
		{"bad format", []string{"promgen", "-o", "x", "-f", "elf", "--bit", "0=top.bit"}, toolchain.ErrInvalidPromFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
