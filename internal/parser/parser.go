package parser

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/xilreport/internal/model"
)

// messagePattern matches "<SEVERITY>:<TOOL>:<NUMBER> - <TEXT>" at the start
// of a line.
var messagePattern = regexp.MustCompile(`^([A-Za-z]+):([A-Za-z]+):([0-9]+) - (.*)`)

// Parse reads the report at path and returns its messages in file order.
// It fails only when the file cannot be read; the returned error wraps the
// underlying fs error, so errors.Is(err, fs.ErrNotExist) works.
func Parse(path string) (*model.ReportStore, error) {
	f, err := os.Open(path) //nolint:gosec // Report path is user-provided by design
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	return ParseReader(path, f)
}

// ParseReader parses a report read from r. name is recorded as the store's
// path.
func ParseReader(name string, r io.Reader) (*model.ReportStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", name, err)
	}
	return ParseBytes(name, data), nil
}

// ParseBytes parses report content already held in memory.
func ParseBytes(name string, data []byte) *model.ReportStore {
	lines := splitLines(string(data))

	var messages []model.Message
	for i, line := range lines {
		msg, ok := ParseLine(line)
		if !ok {
			continue
		}
		msg.Line = i
		messages = append(messages, msg)
	}

	return model.NewReportStore(name, len(lines), messages)
}

// ParseLine parses a single report line. The returned message has Line set
// to zero; ok is false when the line is not a message.
func ParseLine(line string) (model.Message, bool) {
	m := messagePattern.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if m == nil {
		return model.Message{}, false
	}

	msg := model.Message{
		Severity: m[1],
		Tool:     m[2],
		Text:     m[4],
	}
	// On overflow Atoi returns the clamped value along with the error.
	msg.Number, _ = strconv.Atoi(m[3])
	if strconv.Itoa(msg.Number) != m[3] {
		msg.Code = m[3]
	}
	return msg, true
}

// newlines normalises CRLF and bare CR line endings to LF.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines splits content into lines at LF, CRLF or a bare CR. A trailing
// line ending does not start an extra line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(newlines.Replace(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
