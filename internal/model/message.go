package model

import "strconv"

// SeverityError is the severity label the toolchain uses for fatal messages.
// Severity is otherwise free text copied verbatim from the report.
const SeverityError = "ERROR"

// Message is one parsed report line.
type Message struct {
	// Tool is the short name of the sub-tool that emitted the line (e.g. "Xst").
	Tool string `json:"tool"`

	// Number is the tool-scoped message code. Codes too large for int are
	// clamped to the largest int; Code keeps the digits as written.
	Number int `json:"number"`

	// Code is the message code exactly as it appeared in the report. It is
	// empty when it is the decimal form of Number.
	Code string `json:"code,omitempty"`

	// Severity is the label as it appears in the report (e.g. "WARNING").
	Severity string `json:"severity"`

	// Text is the message body after the " - " separator.
	Text string `json:"text"`

	// Line is the zero-based line index within the source report.
	Line int `json:"line"`
}

// Identity returns the grouping key "<severity>:<tool>:<number>".
func (m Message) Identity() string {
	if m.Code != "" {
		return m.Severity + ":" + m.Tool + ":" + m.Code
	}
	return IdentityKey(m.Severity, m.Tool, m.Number)
}

// IdentityKey builds an identity key from its parts.
func IdentityKey(severity, tool string, number int) string {
	return severity + ":" + tool + ":" + strconv.Itoa(number)
}
