package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/epubdiff/internal/model"
)

// HistoryDB provides SQLite-based storage for comparison runs.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all archive pairs
// rather than one file per pair. This keeps history listings a single
// query and simplifies backup/restore operations.
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

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "epubdiff.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string.
	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
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

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Comparison runs store complete reports as JSON
	CREATE TABLE IF NOT EXISTS comparison_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_path TEXT NOT NULL,
		translated_path TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		finding_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_original ON comparison_runs(original_path);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON comparison_runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport saves a complete comparison report as JSON, together with a
// per-category finding summary for cheap history listings.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.ComparisonReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := make(map[string]int, len(model.Categories()))
	for _, c := range model.Categories() {
		summary[c.String()] = report.CountByCategory(c)
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	query := `
	INSERT INTO comparison_runs (original_path, translated_path, report_json, finding_summary)
	VALUES (?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.OriginalPath,
		report.TranslatedPath,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save comparison run: %w", err)
	}

	return nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// OriginalPath is the original archive location.
	OriginalPath string

	// TranslatedPath is the translated archive location.
	TranslatedPath string

	// Timestamp is when the comparison was performed.
	Timestamp time.Time

	// FindingSummary contains finding counts keyed by category name.
	FindingSummary map[string]int
}

// TotalFindings returns the summed finding count across categories.
func (m RunMetadata) TotalFindings() int {
	var total int
	for _, n := range m.FindingSummary {
		total += n
	}
	return total
}

// ListRuns retrieves metadata for stored runs, most recent first.
// A limit of 0 returns all runs.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, original_path, translated_path, timestamp, finding_summary
	FROM comparison_runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparison runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.OriginalPath, &meta.TranslatedPath, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.FindingSummary); err != nil {
				meta.FindingSummary = make(map[string]int)
			}
		} else {
			meta.FindingSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a stored report by its database ID.
// Returns nil without error when no run has that ID.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.ComparisonReport, error) {
	query := `
	SELECT report_json FROM comparison_runs
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison run: %w", err)
	}

	var report model.ComparisonReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetLatestReport retrieves the most recent report for an original
// archive location. Returns nil without error when none is stored.
func (hdb *HistoryDB) GetLatestReport(ctx context.Context, originalPath string) (*model.ComparisonReport, error) {
	query := `
	SELECT report_json FROM comparison_runs
	WHERE original_path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, originalPath).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison run: %w", err)
	}

	var report model.ComparisonReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
