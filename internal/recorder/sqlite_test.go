package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MarketReplay/internal/model"
)

func TestSQLiteRecorder_RecordAndReadBack(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "replay.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	bar := model.Bar{Time: time.Unix(100, 0).UTC(), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, AdjClose: 1.5}
	if err := r.RecordBar("SPY", 1, bar); err != nil {
		t.Fatalf("RecordBar: %v", err)
	}
	if err := r.RecordBar("QQQ", 1, bar); err != nil {
		t.Fatalf("RecordBar: %v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM replayed_bars`).Scan(&count); err != nil {
		t.Fatalf("count bars: %v", err)
	}
	if count != 2 {
		t.Errorf("replayed_bars rows = %d, want 2", count)
	}

	var symbol string
	var closePx float64
	if err := r.db.QueryRow(`SELECT symbol, close FROM replayed_bars WHERE symbol = 'SPY'`).Scan(&symbol, &closePx); err != nil {
		t.Fatalf("read bar back: %v", err)
	}
	if closePx != 1.5 {
		t.Errorf("stored close = %v, want 1.5", closePx)
	}

	sum := &RunSummary{
		StartedAt:    time.Unix(100, 0),
		FinishedAt:   time.Unix(200, 0),
		Source:       "mock",
		Symbols:      []string{"SPY", "QQQ"},
		Passes:       3,
		AxisLen:      3,
		BarsRevealed: map[string]int{"SPY": 3, "QQQ": 2},
		DroppedEvts:  1,
	}
	if err := r.RecordRun(sum); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	var symbols string
	var passes, revealed int
	if err := r.db.QueryRow(`SELECT symbols, passes, bars_revealed FROM runs`).Scan(&symbols, &passes, &revealed); err != nil {
		t.Fatalf("read run back: %v", err)
	}
	if symbols != "SPY,QQQ" || passes != 3 || revealed != 5 {
		t.Errorf("run row: symbols=%q passes=%d revealed=%d", symbols, passes, revealed)
	}
}

func TestSQLiteRecorder_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.db")
	for i := 0; i < 2; i++ {
		r, err := NewSQLiteRecorder(path)
		if err != nil {
			t.Fatalf("open %d: %v", i+1, err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("close %d: %v", i+1, err)
		}
	}
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	if err := n.RecordBar("SPY", 1, model.Bar{}); err != nil {
		t.Errorf("RecordBar: %v", err)
	}
	if err := n.RecordRun(&RunSummary{}); err != nil {
		t.Errorf("RecordRun: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
