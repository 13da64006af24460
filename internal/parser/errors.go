package parser

import "errors"

// ErrNoTimingScore is returned when a timing report has no parsable score.
var ErrNoTimingScore = errors.New("timing score not found")
