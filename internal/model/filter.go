package model

// Filter narrows the messages considered by a query. A nil field matches
// every message; a set field must match exactly (no wildcards, no case
// folding).
type Filter struct {
	Tool     *string
	Severity *string
	Number   *int
}

// FilterOption sets one field of a Filter.
type FilterOption func(*Filter)

// WithTool keeps only messages emitted by tool.
func WithTool(tool string) FilterOption {
	return func(f *Filter) {
		f.Tool = &tool
	}
}

// WithSeverity keeps only messages with the given severity label.
func WithSeverity(severity string) FilterOption {
	return func(f *Filter) {
		f.Severity = &severity
	}
}

// WithNumber keeps only messages with the given message code.
func WithNumber(number int) FilterOption {
	return func(f *Filter) {
		f.Number = &number
	}
}

// NewFilter applies opts to an empty Filter.
func NewFilter(opts ...FilterOption) Filter {
	var f Filter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Match reports whether msg passes every set field of the filter.
func (f Filter) Match(msg Message) bool {
	if f.Tool != nil && *f.Tool != msg.Tool {
		return false
	}
	if f.Severity != nil && *f.Severity != msg.Severity {
		return false
	}
	if f.Number != nil && *f.Number != msg.Number {
		return false
	}
	return true
}

// IsEmpty reports whether no field is set.
func (f Filter) IsEmpty() bool {
	return f.Tool == nil && f.Severity == nil && f.Number == nil
}
