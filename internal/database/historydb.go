package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/xilreport/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "xilreport.db"

// timestampLayout is the layout runs are stored with. It is fixed-width
// so that lexical ordering in SQL matches chronological ordering.
const timestampLayout = "2006-01-02 15:04:05.000000"

// ErrNotFound is returned when a database file is required but missing.
var ErrNotFound = errors.New("database not found")

// HistoryDB provides SQLite-based storage for parse runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist,
// an error wrapping ErrNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per parse of a report file
	CREATE TABLE IF NOT EXISTS report_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		report_path TEXT NOT NULL,
		digest TEXT,
		timestamp TEXT NOT NULL,
		message_count INTEGER NOT NULL,
		shown_count INTEGER NOT NULL,
		timing_score INTEGER,
		summary_json TEXT NOT NULL,
		severity_counts TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_path ON report_runs(report_path);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON report_runs(timestamp);

	-- Shown messages of each run
	CREATE TABLE IF NOT EXISTS report_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES report_runs(run_id) ON DELETE CASCADE,
		identity TEXT NOT NULL,
		severity TEXT NOT NULL,
		tool TEXT NOT NULL,
		number INTEGER NOT NULL,
		line INTEGER NOT NULL,
		text TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_run ON report_messages(run_id);
	CREATE INDEX IF NOT EXISTS idx_messages_identity ON report_messages(identity);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSummary stores a summary and its shown messages in one transaction.
// It returns the generated run ID.
func (h *HistoryDB) SaveSummary(ctx context.Context, summary *model.Summary) (string, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to serialize summary: %w", err)
	}
	countsJSON, err := json.Marshal(summary.SeverityCounts)
	if err != nil {
		return "", fmt.Errorf("failed to serialize severity counts: %w", err)
	}

	var timing sql.NullInt64
	if summary.TimingScore != nil {
		timing = sql.NullInt64{Int64: int64(*summary.TimingScore), Valid: true}
	}

	runID := uuid.NewString()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO report_runs (run_id, report_path, digest, timestamp, message_count, shown_count, timing_score, summary_json, severity_counts)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		summary.ReportPath,
		summary.Digest,
		summary.DateParsed.UTC().Format(timestampLayout),
		summary.MessageCount,
		summary.ShownCount,
		timing,
		string(summaryJSON),
		string(countsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO report_messages (run_id, identity, severity, tool, number, line, text)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range summary.Groups {
		for _, m := range g.Messages {
			if _, err := stmt.ExecContext(ctx, runID, g.Identity, m.Severity, m.Tool, m.Number, m.Line, m.Text); err != nil {
				return "", fmt.Errorf("failed to save message: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// GetLatest retrieves the most recent summary saved for reportPath.
// Returns nil without error when there is none.
func (h *HistoryDB) GetLatest(ctx context.Context, reportPath string) (*model.Summary, error) {
	query := `
	SELECT summary_json FROM report_runs
	WHERE report_path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`
	return h.querySummary(ctx, query, reportPath)
}

// GetByID retrieves the summary saved under runID.
// Returns nil without error when there is none.
func (h *HistoryDB) GetByID(ctx context.Context, runID string) (*model.Summary, error) {
	query := `
	SELECT summary_json FROM report_runs
	WHERE run_id = ?
	`
	return h.querySummary(ctx, query, runID)
}

func (h *HistoryDB) querySummary(ctx context.Context, query string, arg any) (*model.Summary, error) {
	var summaryJSON string
	err := h.db.QueryRowContext(ctx, query, arg).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &summary, nil
}

// ListReports returns every report path that has at least one run.
func (h *HistoryDB) ListReports(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT report_path FROM report_runs
	ORDER BY report_path
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan report path: %w", err)
		}
		reports = append(reports, path)
	}

	return reports, rows.Err()
}

// RunMetadata contains summary information about a saved run.
// It is used for listing history without loading full summaries.
type RunMetadata struct {
	// RunID is the unique identifier of the run.
	RunID string

	// ReportPath is the parsed report file.
	ReportPath string

	// Digest is the content hash of the report at parse time.
	Digest string

	// Timestamp is when the report was parsed.
	Timestamp time.Time

	// MessageCount is the number of parsed messages.
	MessageCount int

	// ShownCount is the number of messages after filtering and waivers.
	ShownCount int

	// TimingScore is the timing score, if one was recorded.
	TimingScore *int

	// SeverityCounts maps severity to shown message count.
	SeverityCounts map[string]int
}

// GetHistory retrieves run metadata for reportPath, newest first.
func (h *HistoryDB) GetHistory(ctx context.Context, reportPath string) ([]RunMetadata, error) {
	query := `
	SELECT run_id, report_path, digest, timestamp, message_count, shown_count, timing_score, severity_counts
	FROM report_runs
	WHERE report_path = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, reportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var digest, countsJSON sql.NullString
		var timestamp string
		var timing sql.NullInt64

		if err := rows.Scan(&meta.RunID, &meta.ReportPath, &digest, &timestamp,
			&meta.MessageCount, &meta.ShownCount, &timing, &countsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Digest = digest.String
		meta.Timestamp = parseTimestamp(timestamp)
		if timing.Valid {
			score := int(timing.Int64)
			meta.TimingScore = &score
		}

		meta.SeverityCounts = make(map[string]int)
		if countsJSON.Valid && countsJSON.String != "" {
			if err := json.Unmarshal([]byte(countsJSON.String), &meta.SeverityCounts); err != nil {
				meta.SeverityCounts = make(map[string]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// IdentityCounts returns how often each identity was shown in runID.
func (h *HistoryDB) IdentityCounts(ctx context.Context, runID string) (map[string]int, error) {
	query := `
	SELECT identity, COUNT(*) FROM report_messages
	WHERE run_id = ?
	GROUP BY identity
	`

	rows, err := h.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count identities: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var identity string
		var n int
		if err := rows.Scan(&identity, &n); err != nil {
			return nil, fmt.Errorf("failed to scan identity count: %w", err)
		}
		counts[identity] = n
	}

	return counts, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
