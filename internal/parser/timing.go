package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	timingSummaryMarker = "Timing summary:"
	scoreMarker         = "Score:"
)

// ParseTimingScore reads a timing report and returns its timing score.
func ParseTimingScore(path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Report path is user-provided by design
	if err != nil {
		return 0, fmt.Errorf("failed to read timing report: %w", err)
	}
	return TimingScore(string(data))
}

// TimingScore extracts the score that follows "Score:" within the
// "Timing summary:" section, e.g.
//
//	Timing summary:
//	---------------
//	Timing errors: 0  Score: 0  (Setup/Max: 0, Hold: 0)
func TimingScore(content string) (int, error) {
	_, afterSummary, ok := strings.Cut(content, timingSummaryMarker)
	if !ok {
		return 0, ErrNoTimingScore
	}
	_, afterScore, ok := strings.Cut(afterSummary, scoreMarker)
	if !ok {
		return 0, ErrNoTimingScore
	}

	field := afterScore
	if idx := strings.Index(field, "("); idx >= 0 {
		field = field[:idx]
	}
	score, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoTimingScore, err)
	}
	return score, nil
}
