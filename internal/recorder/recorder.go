package recorder

import (
	"time"

	"MarketReplay/internal/model"
)

// RunSummary holds the final stats of one replay run.
type RunSummary struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	Source       string
	Symbols      []string
	Passes       int
	AxisLen      int
	BarsRevealed map[string]int
	DroppedEvts  int64
}

// Recorder persists replayed data for later analysis.
type Recorder interface {
	RecordBar(symbol string, pass int, bar model.Bar) error
	RecordRun(sum *RunSummary) error
	Close() error
}
