package model

import (
	"sort"
	"time"
)

// severityRank orders the labels the ISE tools emit, most severe first.
// Unknown labels sort after these, alphabetically.
var severityRank = map[string]int{
	"ERROR":   0,
	"WARNING": 1,
	"INFO":    2,
}

// IdentityGroup collects every occurrence of one message identity.
type IdentityGroup struct {
	Identity string    `json:"identity"`
	Severity string    `json:"severity"`
	Tool     string    `json:"tool"`
	Number   int       `json:"number"`
	Count    int       `json:"count"`
	Messages []Message `json:"messages"`
}

// FirstText returns the text of the first occurrence.
func (g IdentityGroup) FirstText() string {
	if len(g.Messages) == 0 {
		return ""
	}
	return g.Messages[0].Text
}

// Lines returns the zero-based line indices of all occurrences.
func (g IdentityGroup) Lines() []int {
	lines := make([]int, len(g.Messages))
	for i, m := range g.Messages {
		lines[i] = m.Line
	}
	return lines
}

// Summary is a serialisable view of a parsed report, after filtering and
// waivers have been applied. Writers and the history database consume it.
type Summary struct {
	// ReportPath is the path of the parsed report file.
	ReportPath string `json:"report_path"`

	// DateParsed is when the report was parsed.
	DateParsed time.Time `json:"date_parsed"`

	// TotalLines is the number of physical lines in the report.
	TotalLines int `json:"total_lines"`

	// MessageCount is the number of lines that parsed as messages.
	MessageCount int `json:"message_count"`

	// ShownCount is the number of messages left after filtering and waivers.
	ShownCount int `json:"shown_count"`

	// WaivedCount is the number of messages hidden by waivers.
	WaivedCount int `json:"waived_count,omitempty"`

	// SeverityCounts maps severity label to the number of shown messages.
	SeverityCounts map[string]int `json:"severity_counts"`

	// Groups lists identities in order of first occurrence.
	Groups []IdentityGroup `json:"groups"`

	// TimingScore is the score from the accompanying timing report, if any.
	TimingScore *int `json:"timing_score,omitempty"`

	// Digest is the content hash of the report file, if computed.
	Digest string `json:"digest,omitempty"`

	// Error holds the parse failure for reports that could not be read.
	Error string `json:"error,omitempty"`
}

type summaryOptions struct {
	filter  []FilterOption
	waivers map[string]bool
}

// SummaryOption configures NewSummary.
type SummaryOption func(*summaryOptions)

// WithFilter restricts the summary to messages passing the filter.
func WithFilter(opts ...FilterOption) SummaryOption {
	return func(o *summaryOptions) {
		o.filter = append(o.filter, opts...)
	}
}

// WithWaivers hides every message whose identity is in keys.
func WithWaivers(keys ...string) SummaryOption {
	return func(o *summaryOptions) {
		for _, k := range keys {
			o.waivers[k] = true
		}
	}
}

// NewSummary builds a Summary from store.
func NewSummary(store *ReportStore, opts ...SummaryOption) *Summary {
	o := summaryOptions{waivers: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Summary{
		ReportPath:     store.Path(),
		DateParsed:     time.Now(),
		TotalLines:     store.TotalLines(),
		MessageCount:   store.Len(),
		SeverityCounts: make(map[string]int),
		Groups:         make([]IdentityGroup, 0),
	}

	groups := store.GroupByIdentity(o.filter...)
	for _, key := range store.Identities(o.filter...) {
		msgs := groups[key]
		if o.waivers[key] {
			s.WaivedCount += len(msgs)
			continue
		}
		first := msgs[0]
		s.Groups = append(s.Groups, IdentityGroup{
			Identity: key,
			Severity: first.Severity,
			Tool:     first.Tool,
			Number:   first.Number,
			Count:    len(msgs),
			Messages: msgs,
		})
		s.SeverityCounts[first.Severity] += len(msgs)
		s.ShownCount += len(msgs)
	}

	return s
}

// NewFailedSummary records a report that could not be parsed.
func NewFailedSummary(path string, err error) *Summary {
	return &Summary{
		ReportPath:     path,
		DateParsed:     time.Now(),
		SeverityCounts: make(map[string]int),
		Groups:         make([]IdentityGroup, 0),
		Error:          err.Error(),
	}
}

// Severities returns the severity labels present in the summary, most
// severe first.
func (s *Summary) Severities() []string {
	labels := make([]string, 0, len(s.SeverityCounts))
	for label := range s.SeverityCounts {
		labels = append(labels, label)
	}
	SortSeverities(labels)
	return labels
}

// Count returns the number of shown messages with the given severity.
func (s *Summary) Count(severity string) int {
	return s.SeverityCounts[severity]
}

// GroupsBySeverity returns the groups carrying the given severity.
func (s *Summary) GroupsBySeverity(severity string) []IdentityGroup {
	var out []IdentityGroup
	for _, g := range s.Groups {
		if g.Severity == severity {
			out = append(out, g)
		}
	}
	return out
}

// HasMessages reports whether any message survived filtering.
func (s *Summary) HasMessages() bool {
	return s.ShownCount > 0
}

// SortSeverities sorts labels in place, most severe first.
func SortSeverities(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ri, okI := severityRank[labels[i]]
		rj, okJ := severityRank[labels[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		case okJ:
			return false
		default:
			return labels[i] < labels[j]
		}
	})
}
