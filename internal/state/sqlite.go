package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	_ "modernc.org/sqlite" // sqlite driver
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements core.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store. A nil logger discards output.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// NewSQLiteStoreWithDB wraps an existing connection. Used by tests.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened history database", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path given to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func ctx() context.Context {
	return context.Background()
}

// CreateRun inserts run with a fresh ID, status running and the current time.
func (s *SQLiteStore) CreateRun(run *core.Run) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	created := *run
	created.ID = generateID()
	created.Status = core.RunStatusRunning
	created.StartedAt = time.Now().UTC()
	if created.Countries == nil {
		created.Countries = []string{}
	}

	countries, err := json.Marshal(created.Countries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode countries: %w", err)
	}

	s.logger.Debug("creating run", slog.String("id", created.ID), slog.String("command", created.Command))

	_, err = s.db.ExecContext(ctx(),
		`INSERT INTO runs (id, command, source_path, countries, min_year, max_year, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Command, created.SourcePath, string(countries),
		created.MinYear, created.MaxYear, string(created.Status), created.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return &created, nil
}

// CompleteRun marks a run as finished with the given status.
func (s *SQLiteStore) CompleteRun(id string, status core.RunStatus, points int, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	var errVal sql.NullString
	if errMsg != "" {
		errVal = sql.NullString{String: errMsg, Valid: true}
	}

	res, err := s.db.ExecContext(ctx(),
		`UPDATE runs SET status = ?, points = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(status), points, errVal, time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	return nil
}

const selectRun = `SELECT id, command, source_path, countries, min_year, max_year, status, points, error, started_at, completed_at FROM runs`

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run, err := scanRun(s.db.QueryRowContext(ctx(), selectRun+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetLatestRun retrieves the most recent run, or nil when there is none.
func (s *SQLiteStore) GetLatestRun() (*core.Run, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// ListRuns retrieves the most recent runs, newest first. limit <= 0 lists all.
func (s *SQLiteStore) ListRuns(limit int) ([]*core.Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx(), selectRun+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*core.Run, error) {
	var (
		run         core.Run
		countries   string
		status      string
		errMsg      sql.NullString
		startedAt   string
		completedAt sql.NullString
	)
	if err := sc.Scan(&run.ID, &run.Command, &run.SourcePath, &countries, &run.MinYear, &run.MaxYear,
		&status, &run.Points, &errMsg, &startedAt, &completedAt); err != nil {
		return nil, err
	}

	run.Status = core.RunStatus(status)
	run.Error = errMsg.String
	if err := json.Unmarshal([]byte(countries), &run.Countries); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	run.StartedAt = t
	if completedAt.Valid {
		t, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		run.CompletedAt = &t
	}
	return &run, nil
}

// Ensure SQLiteStore implements Store interface
var _ core.Store = (*SQLiteStore)(nil)
