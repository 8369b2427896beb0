// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tracker persists DataSource records: one row per data pull, keyed
// by a unique name, in a SQLite database.
package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/datapacket/pkg/types"
)

// Sentinel errors returned by Store.
var (
	ErrInvalidSource = errors.New("invalid data source")
	ErrNotFound      = errors.New("data source not found")
)

// Store manages the tracker SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the tracker database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.TrackerConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = types.DefaultConfig().Tracker.DBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS data_sources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			date_pulled TIMESTAMP NOT NULL,
			source_type TEXT NOT NULL,
			file_path TEXT,
			record_count INTEGER,
			status TEXT DEFAULT 'success',
			notes TEXT,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_data_sources_date ON data_sources(date_pulled)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Validate checks the required fields of src and fills the default status.
func Validate(src *types.DataSource) error {
	src.Name = strings.TrimSpace(src.Name)
	if src.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSource)
	}
	if !src.SourceType.Valid() {
		return fmt.Errorf("%w: unknown source type %q", ErrInvalidSource, src.SourceType)
	}
	if src.Status == "" {
		src.Status = types.StatusSuccess
	}
	if !src.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSource, src.Status)
	}
	if src.RecordCount != nil && *src.RecordCount < 0 {
		return fmt.Errorf("%w: record count %d is negative", ErrInvalidSource, *src.RecordCount)
	}
	if src.DatePulled.IsZero() {
		return fmt.Errorf("%w: date pulled is required", ErrInvalidSource)
	}
	return nil
}

// Add validates src and inserts it, replacing any source with the same
// name. The assigned ID is set on the returned copy.
func (s *Store) Add(ctx context.Context, src types.DataSource) (types.DataSource, error) {
	if err := Validate(&src); err != nil {
		return src, err
	}

	var metadata sql.NullString
	if len(src.Metadata) > 0 {
		data, err := json.Marshal(src.Metadata)
		if err != nil {
			return src, fmt.Errorf("encoding metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	var count sql.NullInt64
	if src.RecordCount != nil {
		count = sql.NullInt64{Int64: int64(*src.RecordCount), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO data_sources
			(name, date_pulled, source_type, file_path, record_count, status, notes, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		src.Name, src.DatePulled.UTC().Format(timeLayout), string(src.SourceType),
		nullString(src.FilePath), count, string(src.Status), nullString(src.Notes), metadata,
	)
	if err != nil {
		return src, fmt.Errorf("inserting data source %s: %w", src.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return src, fmt.Errorf("reading id of %s: %w", src.Name, err)
	}
	src.ID = id
	return src, nil
}

// timeLayout is fixed width so date_pulled sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `id, name, date_pulled, source_type, file_path, record_count, status, notes, metadata`

// List returns all sources, most recently pulled first.
func (s *Store) List(ctx context.Context) ([]types.DataSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM data_sources ORDER BY date_pulled DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing data sources: %w", err)
	}
	defer rows.Close()

	var out []types.DataSource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// Get returns the source named name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (types.DataSource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM data_sources WHERE name = ?`, name)
	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.DataSource{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return src, err
}

// Count returns the number of tracked sources.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM data_sources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting data sources: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(sc scanner) (types.DataSource, error) {
	var (
		src        types.DataSource
		datePulled string
		sourceType string
		status     sql.NullString
		filePath   sql.NullString
		notes      sql.NullString
		metadata   sql.NullString
		count      sql.NullInt64
	)
	if err := sc.Scan(&src.ID, &src.Name, &datePulled, &sourceType, &filePath,
		&count, &status, &notes, &metadata); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return src, err
		}
		return src, fmt.Errorf("scanning data source: %w", err)
	}

	t, err := parseTime(datePulled)
	if err != nil {
		return src, fmt.Errorf("data source %s: %w", src.Name, err)
	}
	src.DatePulled = t
	src.SourceType = types.SourceType(sourceType)
	src.Status = types.SourceStatus(status.String)
	src.FilePath = filePath.String
	src.Notes = notes.String
	if count.Valid {
		n := int(count.Int64)
		src.RecordCount = &n
	}
	if metadata.Valid && metadata.String != "" {
		// Unreadable metadata is dropped rather than failing the listing.
		var m map[string]string
		if json.Unmarshal([]byte(metadata.String), &m) == nil {
			src.Metadata = m
		}
	}
	return src, nil
}

// parseTime accepts RFC 3339 and the space-separated layouts older
// databases stored.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date_pulled %q", s)
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
