package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nao1215/xilreport/internal/model"
	"github.com/nao1215/xilreport/internal/toolchain"
)

const namespace = "xilreport"

// Recorder collects metrics into its own registry. The zero value is not
// usable; call NewRecorder.
type Recorder struct {
	registry *prometheus.Registry

	toolRuns     *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	messages     *prometheus.GaugeVec
	timingScore  *prometheus.GaugeVec
	parseErrors  prometheus.Counter
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_runs_total",
				Help:      "Toolchain runs by tool and outcome.",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_run_duration_seconds",
				Help:      "Wall time of toolchain runs.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~34min
			},
			[]string{"tool"},
		),
		messages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "report_messages",
				Help:      "Shown messages per report and severity.",
			},
			[]string{"report", "severity"},
		),
		timingScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "report_timing_score",
				Help:      "Timing score of the report's timing analysis.",
			},
			[]string{"report"},
		),
		parseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_parse_errors_total",
				Help:      "Reports that could not be parsed.",
			},
		),
	}
	r.registry.MustRegister(r.toolRuns, r.toolDuration, r.messages, r.timingScore, r.parseErrors)
	return r
}

// ObserveRun records one finished tool run.
func (r *Recorder) ObserveRun(tool string, result *toolchain.Result) {
	if result == nil {
		return
	}
	name := filepath.Base(tool)
	r.toolRuns.WithLabelValues(name, result.Outcome.String()).Inc()
	r.toolDuration.WithLabelValues(name).Observe(result.Duration.Seconds())
}

// ObserveSummary records the severity counts and timing score of a summary.
// Failed summaries only increment the parse error counter.
func (r *Recorder) ObserveSummary(s *model.Summary) {
	if s == nil {
		return
	}
	if s.Error != "" {
		r.parseErrors.Inc()
		return
	}
	for _, sev := range s.Severities() {
		r.messages.WithLabelValues(s.ReportPath, sev).Set(float64(s.Count(sev)))
	}
	if s.TimingScore != nil {
		r.timingScore.WithLabelValues(s.ReportPath).Set(float64(*s.TimingScore))
	}
}

// WriteFile writes all metrics to path in the text exposition format.
// The file is written atomically, as the textfile collector expects.
func (r *Recorder) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
