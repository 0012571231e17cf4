package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MarketReplay/internal/model"
)

// SQLiteRecorder persists replayed bars and run summaries to a SQLite
// database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis tools can read while a replay writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS replayed_bars (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_ts    INTEGER NOT NULL,
			pass      INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			bar_ts    INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			adj_close REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_symbol_ts ON replayed_bars(symbol, bar_ts)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at     INTEGER NOT NULL,
			finished_at    INTEGER NOT NULL,
			source         TEXT,
			symbols        TEXT,
			passes         INTEGER,
			axis_len       INTEGER,
			bars_revealed  INTEGER,
			dropped_events INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBar(symbol string, pass int, bar model.Bar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO replayed_bars
		(run_ts, pass, symbol, bar_ts, open, high, low, close, volume, adj_close)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), pass, symbol, bar.Time.Unix(),
		bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.AdjClose,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(sum *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, n := range sum.BarsRevealed {
		total += n
	}
	_, err := r.db.Exec(`INSERT INTO runs
		(started_at, finished_at, source, symbols, passes, axis_len, bars_revealed, dropped_events)
		VALUES (?,?,?,?,?,?,?,?)`,
		sum.StartedAt.Unix(), sum.FinishedAt.Unix(), sum.Source,
		strings.Join(sum.Symbols, ","), sum.Passes, sum.AxisLen, total, sum.DroppedEvts,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
