package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/xilreport/internal/database"
	"github.com/nao1215/xilreport/internal/model"
	"github.com/nao1215/xilreport/internal/parser"
)

// ErrNoStore is returned by steps that need a parsed report when
// ParseStep has not run.
var ErrNoStore = errors.New("report has not been parsed")

// ErrNoSummary is returned by steps that need a summary when
// SummarizeStep has not run.
var ErrNoSummary = errors.New("report has not been summarized")

// ParseStep reads the job's report file into a ReportStore.
type ParseStep struct{}

// NewParseStep creates a ParseStep.
func NewParseStep() *ParseStep {
	return &ParseStep{}
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do parses job.Path.
func (s *ParseStep) Do(_ context.Context, job *Job) error {
	store, err := parser.Parse(job.Path)
	if err != nil {
		return err
	}
	job.Store = store
	return nil
}

// SummarizeStep builds the job's summary from the parsed store.
type SummarizeStep struct {
	filter  []model.FilterOption
	waivers []string
}

// NewSummarizeStep creates a SummarizeStep that applies filter and
// hides the waived identities.
func NewSummarizeStep(filter []model.FilterOption, waivers []string) *SummarizeStep {
	return &SummarizeStep{
		filter:  filter,
		waivers: waivers,
	}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do builds job.Summary.
func (s *SummarizeStep) Do(_ context.Context, job *Job) error {
	if job.Store == nil {
		return ErrNoStore
	}
	job.Summary = model.NewSummary(job.Store,
		model.WithFilter(s.filter...),
		model.WithWaivers(s.waivers...),
	)
	return nil
}

// DigestStep records the content hash of the report file.
type DigestStep struct{}

// NewDigestStep creates a DigestStep.
func NewDigestStep() *DigestStep {
	return &DigestStep{}
}

// Name returns the step name.
func (s *DigestStep) Name() string {
	return "digest"
}

// Do hashes job.Path into the summary.
func (s *DigestStep) Do(_ context.Context, job *Job) error {
	if job.Summary == nil {
		return ErrNoSummary
	}
	digest, err := parser.Digest(job.Path)
	if err != nil {
		return err
	}
	job.Summary.Digest = digest
	return nil
}

// TimingStep attaches the score from job.TimingPath to the summary.
// A timing report without a score is logged and skipped; one that
// cannot be read fails the step.
type TimingStep struct {
	logger *slog.Logger
}

// NewTimingStep creates a TimingStep.
func NewTimingStep(logger *slog.Logger) *TimingStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimingStep{logger: logger}
}

// Name returns the step name.
func (s *TimingStep) Name() string {
	return "timing"
}

// Do reads the timing score.
func (s *TimingStep) Do(_ context.Context, job *Job) error {
	if job.TimingPath == "" {
		return nil
	}
	if job.Summary == nil {
		return ErrNoSummary
	}

	score, err := parser.ParseTimingScore(job.TimingPath)
	if errors.Is(err, parser.ErrNoTimingScore) {
		s.logger.Warn("timing report has no score", "path", job.TimingPath)
		return nil
	}
	if err != nil {
		return err
	}
	job.Summary.TimingScore = &score
	return nil
}

// SaveStep stores the summary in the history database.
type SaveStep struct {
	db *database.HistoryDB
}

// NewSaveStep creates a SaveStep writing to db.
func NewSaveStep(db *database.HistoryDB) *SaveStep {
	return &SaveStep{db: db}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves job.Summary and records the run ID.
func (s *SaveStep) Do(ctx context.Context, job *Job) error {
	if job.Summary == nil {
		return ErrNoSummary
	}
	runID, err := s.db.SaveSummary(ctx, job.Summary)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", job.Path, err)
	}
	job.RunID = runID
	return nil
}

// DefaultPipelineConfig holds configuration for NewDefaultPipeline.
type DefaultPipelineConfig struct {
	// Filter restricts the summary to matching messages.
	Filter []model.FilterOption

	// Waivers lists identities hidden from the summary.
	Waivers []string

	// Digest enables hashing of the report file.
	Digest bool

	// DB enables saving each summary when non-nil.
	DB *database.HistoryDB

	// Logger is used by the pipeline and its steps.
	Logger *slog.Logger
}

// DefaultPipelineOption configures DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineFilter sets the message filter.
func WithPipelineFilter(opts ...model.FilterOption) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Filter = append(c.Filter, opts...)
	}
}

// WithPipelineWaivers sets the waived identities.
func WithPipelineWaivers(keys []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Waivers = keys
	}
}

// WithPipelineDigest enables or disables file hashing.
func WithPipelineDigest(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Digest = enabled
	}
}

// WithPipelineDB saves every summary to db.
func WithPipelineDB(db *database.HistoryDB) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.DB = db
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// NewDefaultPipeline creates the standard parse → summarize → digest →
// timing → save pipeline. Digest defaults to on; save only runs when a
// database is configured.
func NewDefaultPipeline(opts ...DefaultPipelineOption) *Pipeline {
	cfg := &DefaultPipelineConfig{
		Digest: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := New(WithLogger(cfg.Logger))
	p.AddSteps(
		NewParseStep(),
		NewSummarizeStep(cfg.Filter, cfg.Waivers),
	)
	if cfg.Digest {
		p.AddStep(NewDigestStep())
	}
	p.AddStep(NewTimingStep(cfg.Logger))
	if cfg.DB != nil {
		p.AddStep(NewSaveStep(cfg.DB))
	}
	return p
}
