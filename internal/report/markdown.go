package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/xilreport/internal/model"
)

// MarkdownWriter outputs summaries in GitHub Flavored Markdown, suitable
// for CI job summaries and merge request comments.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	if summary.Error == "" {
		w.writeSummary(md, summary)
		w.writeMessages(md, summary)
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with parse information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Synthesis Report Summary")
	md.PlainText("")

	rows := [][]string{
		{"Report", "`" + summary.ReportPath + "`"},
		{"Parsed", summary.DateParsed.Format("2006-01-02 15:04:05 MST")},
	}
	if summary.Error != "" {
		rows = append(rows, []string{"Status", "❌ Error - " + summary.Error})
	} else {
		rows = append(rows,
			[]string{"Lines", strconv.Itoa(summary.TotalLines)},
			[]string{"Messages", strconv.Itoa(summary.MessageCount)},
			[]string{"Shown", strconv.Itoa(summary.ShownCount)},
			[]string{"Waived", strconv.Itoa(summary.WaivedCount)},
		)
		if summary.TimingScore != nil {
			rows = append(rows, []string{"Timing Score", strconv.Itoa(*summary.TimingScore)})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the severity table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Severity Summary")
	md.PlainText("")

	severities := summary.Severities()
	rows := make([][]string, 0, len(severities)+1)
	for _, severity := range severities {
		rows = append(rows, []string{severityLabel(severity), strconv.Itoa(summary.Count(severity))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.ShownCount) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.HasMessages() {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of the severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Message Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, severity := range summary.Severities() {
		if n := summary.Count(severity); n > 0 {
			chart.LabelAndIntValue(severityLabel(severity), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the most severe message present.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.Count(model.SeverityError) > 0:
		md.Cautionf("%d error message(s) reported. The build is not usable.", summary.Count(model.SeverityError))
	case summary.Count("WARNING") > 0:
		md.Warningf("%d warning message(s) reported.", summary.Count("WARNING"))
	case summary.HasMessages():
		md.Note("Only informational messages reported.")
	default:
		md.Tip("No messages reported.")
	}
	md.PlainText("")
}

// writeMessages writes one table per severity.
func (w *MarkdownWriter) writeMessages(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Messages")
	md.PlainText("")

	if !summary.HasMessages() {
		md.PlainText("No messages matched.")
		md.PlainText("")
		return
	}

	for _, severity := range summary.Severities() {
		groups := summary.GroupsBySeverity(severity)
		md.H3(severityLabel(severity))
		md.PlainText("")

		rows := make([][]string, len(groups))
		for i, g := range groups {
			rows[i] = []string{
				"`" + g.Identity + "`",
				strconv.Itoa(g.Count),
				truncateString(g.FirstText(), 80),
				joinLines(g.Lines(), maxLinesShown),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Identity", "Count", "First Message", "Lines"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}
