package recorder

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a batch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_renders (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			run_id      TEXT NOT NULL,
			ticker      TEXT NOT NULL,
			date        TEXT NOT NULL,
			weekday     TEXT,
			change_pct  REAL,
			bars        INTEGER,
			filename    TEXT,
			bytes       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chart_ticker_date ON chart_renders(ticker, date)`,

		`CREATE TABLE IF NOT EXISTS stats_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			run_id          TEXT NOT NULL,
			ticker          TEXT NOT NULL,
			days            INTEGER,
			intraday_total  REAL,
			intraday_win    REAL,
			overnight_total REAL,
			overnight_win   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_ticker ON stats_snapshots(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS batch_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL UNIQUE,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			tickers     INTEGER,
			charts      INTEGER,
			failures    INTEGER,
			status      TEXT,
			note        TEXT
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordChart(evt *ChartEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO chart_renders
		(timestamp, run_id, ticker, date, weekday, change_pct, bars, filename, bytes)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RunID, evt.Ticker, evt.Date, evt.Weekday,
		evt.ChangePct, evt.Bars, evt.Filename, evt.Bytes,
	)
	return err
}

func (r *SQLiteRecorder) RecordStats(evt *StatsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO stats_snapshots
		(timestamp, run_id, ticker, days, intraday_total, intraday_win, overnight_total, overnight_win)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RunID, evt.Ticker, evt.Days,
		evt.IntradayTotal, evt.IntradayWin, evt.OvernightTotal, evt.OvernightWin,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(evt *RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO batch_runs
		(run_id, started_at, finished_at, tickers, charts, failures, status, note)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.RunID, evt.StartedAt.Unix(), evt.FinishedAt.Unix(),
		evt.Tickers, evt.Charts, evt.Failures, evt.Status, evt.Note,
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunEvent, error) {
	rows, err := r.db.Query(`SELECT run_id, started_at, finished_at, tickers, charts, failures, status, note
		FROM batch_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunEvent
	for rows.Next() {
		var evt RunEvent
		var started, finished int64
		if err := rows.Scan(&evt.RunID, &started, &finished, &evt.Tickers, &evt.Charts,
			&evt.Failures, &evt.Status, &evt.Note); err != nil {
			return nil, err
		}
		evt.StartedAt, evt.FinishedAt = time.Unix(started, 0), time.Unix(finished, 0)
		runs = append(runs, evt)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite recorder")
	return r.db.Close()
}
