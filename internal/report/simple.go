package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/xilreport/internal/model"
)

// maxLinesShown caps the line numbers listed per identity.
const maxLinesShown = 10

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose lists every occurrence instead of only the first one.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables listing every message occurrence.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSeverities(&sb, summary)
	w.writeGroups(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with parse information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SYNTHESIS REPORT SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Report:      %s\n", summary.ReportPath))
	sb.WriteString(fmt.Sprintf("Parsed:      %s\n", summary.DateParsed.Format("2006-01-02 15:04:05 MST")))

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:      ERROR - %s\n\n", summary.Error))
		return
	}

	sb.WriteString(fmt.Sprintf("Lines:       %d\n", summary.TotalLines))
	sb.WriteString(fmt.Sprintf("Messages:    %d (%d shown", summary.MessageCount, summary.ShownCount))
	if summary.WaivedCount > 0 {
		sb.WriteString(fmt.Sprintf(", %d waived", summary.WaivedCount))
	}
	sb.WriteString(")\n")
	if summary.TimingScore != nil {
		sb.WriteString(fmt.Sprintf("Timing score: %d\n", *summary.TimingScore))
	}
	sb.WriteString("\n")
}

// writeSeverities writes the per-severity counts.
func (w *SimpleWriter) writeSeverities(sb *strings.Builder, summary *model.Summary) {
	if summary.Error != "" {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !summary.HasMessages() {
		sb.WriteString("  No messages\n\n")
		return
	}

	for _, severity := range summary.Severities() {
		sb.WriteString(fmt.Sprintf("  %-10s %d\n", severity+":", summary.Count(severity)))
	}
	sb.WriteString(fmt.Sprintf("\n  %-10s %d messages, %d identities\n\n", "TOTAL:", summary.ShownCount, len(summary.Groups)))
}

// writeGroups writes each identity with its occurrences.
func (w *SimpleWriter) writeGroups(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasMessages() {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("MESSAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, severity := range summary.Severities() {
		for _, g := range summary.GroupsBySeverity(severity) {
			sb.WriteString(fmt.Sprintf("  [%s] x%s\n", g.Identity, strconv.Itoa(g.Count)))
			if w.verbose {
				for _, m := range g.Messages {
					sb.WriteString(fmt.Sprintf("    %6d: %s\n", m.Line+1, m.Text))
				}
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s\n", g.FirstText()))
			sb.WriteString(fmt.Sprintf("    Lines: %s\n", joinLines(g.Lines(), maxLinesShown)))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
