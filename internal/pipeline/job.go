package pipeline

import (
	"github.com/nao1215/xilreport/internal/model"
)

// Job carries one report file through the pipeline.
type Job struct {
	// Path is the report file to parse.
	Path string

	// TimingPath is an optional timing report whose score is attached
	// to the summary.
	TimingPath string

	// Store is the parsed report, set by ParseStep.
	Store *model.ReportStore

	// Summary is the filtered view of Store, set by SummarizeStep.
	Summary *model.Summary

	// RunID is the history database ID, set by SaveStep.
	RunID string

	// Err is the error of the step that stopped the pipeline, if any.
	Err error

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string
}

// NewJob creates a Job for the report at path.
func NewJob(path string) *Job {
	return &Job{
		Path:           path,
		PerformedSteps: make([]string, 0),
	}
}

// Result returns the job's summary. Jobs that failed before a summary
// was built yield a failed summary carrying the error.
func (j *Job) Result() *model.Summary {
	if j.Summary != nil {
		return j.Summary
	}
	if j.Err != nil {
		return model.NewFailedSummary(j.Path, j.Err)
	}
	return model.NewSummary(model.NewReportStore(j.Path, 0, nil))
}
