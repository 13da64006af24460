package model

// ReportStore is the ordered sequence of messages parsed from one report.
// It is built once and never modified afterwards, so a store may be shared
// between goroutines for reading without synchronization.
type ReportStore struct {
	path       string
	totalLines int
	messages   []Message
}

// NewReportStore creates a store over messages, which must already be in
// file order. The slice is copied.
func NewReportStore(path string, totalLines int, messages []Message) *ReportStore {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	return &ReportStore{
		path:       path,
		totalLines: totalLines,
		messages:   msgs,
	}
}

// Path returns the path of the parsed report.
func (s *ReportStore) Path() string {
	return s.path
}

// TotalLines returns the number of physical lines read from the report,
// matching or not.
func (s *ReportStore) TotalLines() int {
	return s.totalLines
}

// Len returns the number of parsed messages.
func (s *ReportStore) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the parsed messages in file order.
func (s *ReportStore) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// GroupByIdentity groups messages by their identity key. Only messages that
// pass every supplied filter are considered. Each group keeps file order and
// no group is ever empty.
func (s *ReportStore) GroupByIdentity(opts ...FilterOption) map[string][]Message {
	filter := NewFilter(opts...)
	groups := make(map[string][]Message)
	for _, msg := range s.messages {
		if !filter.Match(msg) {
			continue
		}
		key := msg.Identity()
		groups[key] = append(groups[key], msg)
	}
	return groups
}

// Identities returns the identity keys of the filtered messages in order of
// first occurrence.
func (s *ReportStore) Identities(opts ...FilterOption) []string {
	filter := NewFilter(opts...)
	seen := make(map[string]bool)
	var keys []string
	for _, msg := range s.messages {
		if !filter.Match(msg) {
			continue
		}
		key := msg.Identity()
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// CountBySeverity returns the number of messages per severity label.
func (s *ReportStore) CountBySeverity() map[string]int {
	counts := make(map[string]int)
	for _, msg := range s.messages {
		counts[msg.Severity]++
	}
	return counts
}

// HasErrors reports whether any message carries the ERROR severity.
func (s *ReportStore) HasErrors() bool {
	for _, msg := range s.messages {
		if msg.Severity == SeverityError {
			return true
		}
	}
	return false
}
