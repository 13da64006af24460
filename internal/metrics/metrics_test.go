package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nao1215/xilreport/internal/model"
	"github.com/nao1215/xilreport/internal/toolchain"
)

func TestRecorderObserveRun(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveRun("/opt/Xilinx/14.7/ISE_DS/ISE/bin/lin64/xst", &toolchain.Result{
		Outcome:  toolchain.OutcomeSuccess,
		Duration: 3 * time.Second,
	})
	r.ObserveRun("xst", &toolchain.Result{Outcome: toolchain.OutcomeProcessFailed, ExitCode: 1})
	r.ObserveRun("xst", nil)

	if got := testutil.ToFloat64(r.toolRuns.WithLabelValues("xst", toolchain.OutcomeSuccess.String())); got != 1 {
		t.Errorf("success runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.toolRuns.WithLabelValues("xst", toolchain.OutcomeProcessFailed.String())); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.toolDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestRecorderObserveSummary(t *testing.T) {
	t.Parallel()

	store := model.NewReportStore("top.syr", 6, []model.Message{
		{Tool: "Xst", Number: 2042, Severity: "WARNING", Text: "a", Line: 1},
		{Tool: "Xst", Number: 2042, Severity: "WARNING", Text: "b", Line: 4},
		{Tool: "Ngdbuild", Number: 604, Severity: "ERROR", Text: "c", Line: 2},
	})
	summary := model.NewSummary(store)
	score := 1234
	summary.TimingScore = &score

	r := NewRecorder()
	r.ObserveSummary(summary)
	r.ObserveSummary(model.NewFailedSummary("missing.syr", errors.New("no such file")))
	r.ObserveSummary(nil)

	tests := []struct {
		severity string
		want     float64
	}{
		{severity: "WARNING", want: 2},
		{severity: "ERROR", want: 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(r.messages.WithLabelValues("top.syr", tt.severity)); got != tt.want {
			t.Errorf("%s messages = %v, want %v", tt.severity, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(r.timingScore.WithLabelValues("top.syr")); got != 1234 {
		t.Errorf("timing score = %v, want 1234", got)
	}
	if got := testutil.ToFloat64(r.parseErrors); got != 1 {
		t.Errorf("parse errors = %v, want 1", got)
	}
}

func TestRecorderWriteFile(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveRun("map", &toolchain.Result{Outcome: toolchain.OutcomeToolReportedError})

	path := filepath.Join(t.TempDir(), "textfile", "xilreport.prom")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read metrics file: %v", err)
	}
	for _, want := range []string{
		"# TYPE xilreport_tool_runs_total counter",
		`tool="map"`,
		"xilreport_report_parse_errors_total 0",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("metrics file missing %q:\n%s", want, content)
		}
	}
}
