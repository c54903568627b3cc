// Package history keeps a SQLite record of completed analysis runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/soltixdb/trendlens/internal/models"

	// pure Go SQLite driver
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown run id
var ErrNotFound = errors.New("analysis run not found")

const (
	defaultListLimit = 50
	maxListLimit     = 1000
)

// Store persists AnalysisRun rows
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool

	insertStmt *sql.Stmt
	getStmt    *sql.Stmt
	listStmt   *sql.Stmt
}

// Open opens (or creates) the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is required")
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// every connection to :memory: would be a different database
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			indicator TEXT NOT NULL,
			source TEXT NOT NULL,
			total_countries INTEGER NOT NULL,
			selected INTEGER NOT NULL,
			max_value REAL,
			min_value REAL,
			mean_value REAL,
			median_value REAL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_analysis_runs_created ON analysis_runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO analysis_runs (id, indicator, source, total_countries, selected,
			max_value, min_value, mean_value, median_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, indicator, source, total_countries, selected,
			max_value, min_value, mean_value, median_value, created_at
		FROM analysis_runs WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, indicator, source, total_countries, selected,
			max_value, min_value, mean_value, median_value, created_at
		FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT ?
	`)
	return err
}

// Record stores one run. The id must be unique.
func (s *Store) Record(ctx context.Context, run models.AnalysisRun) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("history store is closed")
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.insertStmt.ExecContext(ctx,
		run.ID, run.Indicator, run.Source, run.TotalCountries, run.Selected,
		nullFloat(run.MaxValue), nullFloat(run.MinValue),
		nullFloat(run.MeanValue), nullFloat(run.MedianValue),
		run.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Get returns the run with the given id or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (models.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return models.AnalysisRun{}, errors.New("history store is closed")
	}

	run, err := scanRun(s.getStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.AnalysisRun{}, ErrNotFound
	}
	return run, err
}

// List returns the newest runs first. limit <= 0 uses the default of 50.
func (s *Store) List(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.New("history store is closed")
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.listStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]models.AnalysisRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the prepared statements and the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	for _, stmt := range []*sql.Stmt{s.insertStmt, s.getStmt, s.listStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (models.AnalysisRun, error) {
	var (
		run                     models.AnalysisRun
		maxV, minV, meanV, medV sql.NullFloat64
		createdAt               int64
	)
	err := row.Scan(&run.ID, &run.Indicator, &run.Source, &run.TotalCountries, &run.Selected,
		&maxV, &minV, &meanV, &medV, &createdAt)
	if err != nil {
		return models.AnalysisRun{}, err
	}

	run.MaxValue = floatPtr(maxV)
	run.MinValue = floatPtr(minV)
	run.MeanValue = floatPtr(meanV)
	run.MedianValue = floatPtr(medV)
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return run, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
