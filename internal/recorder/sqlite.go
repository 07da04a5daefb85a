package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"IndexCompare/internal/logging"
	"IndexCompare/internal/model"
)

// SQLiteRecorder persists comparison runs to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logging.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logging.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so external readers can query while runs are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comparison_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL UNIQUE,
			timestamp     INTEGER NOT NULL,
			trigger_type  TEXT,
			index_a       TEXT,
			index_b       TEXT,
			range_from    TEXT,
			range_to      TEXT,
			rows_a        INTEGER,
			rows_b        INTEGER,
			change_a      REAL,
			change_b      REAL,
			status        TEXT,
			error_kind    TEXT,
			error_message TEXT,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON comparison_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_pair ON comparison_runs(index_a, index_b)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordComparison(evt *ComparisonEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO comparison_runs
		(run_id, timestamp, trigger_type, index_a, index_b, range_from, range_to,
		 rows_a, rows_b, change_a, change_b, status, error_kind, error_message, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, ts.Unix(), string(evt.Trigger), evt.IndexA, evt.IndexB,
		model.FormatDate(evt.From), model.FormatDate(evt.To),
		evt.RowsA, evt.RowsB, evt.ChangeA, evt.ChangeB,
		string(evt.Status), string(evt.ErrorKind), evt.ErrorMessage, evt.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record comparison %s: %w", evt.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]ComparisonEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, trigger_type, index_a, index_b, range_from, range_to,
		rows_a, rows_b, change_a, change_b, status, error_kind, error_message, duration_ms
		FROM comparison_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var events []ComparisonEvent
	for rows.Next() {
		var (
			evt                   ComparisonEvent
			ts, durationMS        int64
			trigger, status, kind string
			from, to              string
		)
		if err := rows.Scan(&evt.RunID, &ts, &trigger, &evt.IndexA, &evt.IndexB, &from, &to,
			&evt.RowsA, &evt.RowsB, &evt.ChangeA, &evt.ChangeB, &status, &kind, &evt.ErrorMessage, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		evt.Timestamp = time.Unix(ts, 0)
		evt.Trigger = model.TriggerType(trigger)
		evt.Status = model.RunStatus(status)
		evt.ErrorKind = model.ErrorKind(kind)
		evt.Duration = time.Duration(durationMS) * time.Millisecond
		evt.From, _ = model.ParseDate(from)
		evt.To, _ = model.ParseDate(to)
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// Open returns a SQLite recorder for dbPath, or a NoopRecorder when dbPath is empty
// or the database cannot be opened.
func Open(dbPath string, logger *logging.Logger) Recorder {
	if dbPath == "" {
		return NewNoopRecorder()
	}
	rec, err := NewSQLiteRecorder(dbPath, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("sqlite recorder unavailable, runs will not be recorded")
		return NewNoopRecorder()
	}
	return rec
}
