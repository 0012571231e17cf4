package feed

import (
	"fmt"
	"time"

	"MarketReplay/internal/ingest"
	"MarketReplay/internal/model"
)

// Notifier receives the new-data signal after each fully successful pass.
// The delivery mechanism (queue push, callback, ...) is the caller's
// concern.
type Notifier interface {
	NotifyNewData()
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func()

func (f NotifierFunc) NotifyNewData() { f() }

// Engine replays pre-aligned bar series one tick at a time, exactly as a
// live feed would reveal them. It owns the per-symbol cursors and replay
// buffers; nothing else may mutate them. Not safe for concurrent use.
type Engine struct {
	symbols   []string
	buffers   map[string]*ReplayBuffer
	axis      []time.Time
	notifier  Notifier
	exhausted bool
	passes    int
}

// New fetches every symbol's history through the adapter, then builds the
// engine. Adapter output is validated here regardless of any normalization
// the adapter performed; malformed series abort construction.
func New(adapter ingest.Adapter, symbols []string, notifier Notifier) (*Engine, error) {
	series := make(map[string]model.RawSeries, len(symbols))
	for _, s := range symbols {
		raw, err := adapter.Fetch(s)
		if err != nil {
			return nil, fmt.Errorf("fetch %s from %s: %w", s, adapter.Name(), err)
		}
		series[s] = raw
	}
	return NewFromSeries(series, symbols, notifier)
}

// NewFromSeries builds the engine from already-fetched raw series. The
// symbols slice fixes the per-tick advance order.
func NewFromSeries(series map[string]model.RawSeries, symbols []string, notifier Notifier) (*Engine, error) {
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			return nil, fmt.Errorf("symbol %q registered twice", s)
		}
		seen[s] = true
	}
	axis, cursors, err := buildAligned(series, symbols)
	if err != nil {
		return nil, err
	}
	buffers := make(map[string]*ReplayBuffer, len(symbols))
	for s, cur := range cursors {
		buffers[s] = newReplayBuffer(cur)
	}
	return &Engine{
		symbols:  append([]string(nil), symbols...),
		buffers:  buffers,
		axis:     axis,
		notifier: notifier,
	}, nil
}

// AdvanceAll reveals the next aligned bar for every symbol, in
// registration order, and reports whether the replay should continue.
// Every symbol observes the tick even when one of them exhausts mid-pass;
// once exhausted the engine stays exhausted and no buffer grows further.
func (e *Engine) AdvanceAll() bool {
	if e.exhausted {
		return false
	}
	for _, s := range e.symbols {
		if _, ok := e.buffers[s].Advance(); !ok {
			e.exhausted = true
		}
	}
	if e.exhausted {
		return false
	}
	e.passes++
	if e.notifier != nil {
		e.notifier.NotifyNewData()
	}
	return true
}

// Continue reports whether the replay has data left.
func (e *Engine) Continue() bool { return !e.exhausted }

// Passes returns the number of fully successful AdvanceAll calls.
func (e *Engine) Passes() int { return e.passes }

// Symbols returns the registration order driving each pass.
func (e *Engine) Symbols() []string {
	return append([]string(nil), e.symbols...)
}

// TimeAxis returns the union time axis the replay walks.
func (e *Engine) TimeAxis() []time.Time {
	return append([]time.Time(nil), e.axis...)
}

func (e *Engine) buffer(symbol string) (*ReplayBuffer, error) {
	b, ok := e.buffers[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	return b, nil
}

// LatestBar returns the most recently revealed bar for the symbol.
func (e *Engine) LatestBar(symbol string) (model.Bar, error) {
	b, err := e.buffer(symbol)
	if err != nil {
		return model.Bar{}, err
	}
	return b.LatestBar()
}

// LatestBars returns up to the last n revealed bars for the symbol,
// most recent last.
func (e *Engine) LatestBars(symbol string, n int) ([]model.Bar, error) {
	b, err := e.buffer(symbol)
	if err != nil {
		return nil, err
	}
	return b.LatestBars(n), nil
}

// LatestBarField extracts one named field from the symbol's latest bar.
func (e *Engine) LatestBarField(symbol string, f model.Field) (float64, error) {
	b, err := e.buffer(symbol)
	if err != nil {
		return 0, err
	}
	return b.LatestBarField(f)
}

// LatestBarsFields extracts one named field across the symbol's last n
// bars.
func (e *Engine) LatestBarsFields(symbol string, f model.Field, n int) ([]float64, error) {
	b, err := e.buffer(symbol)
	if err != nil {
		return nil, err
	}
	return b.LatestBarsFields(f, n)
}

// RevealedCount returns how many bars the symbol's buffer holds.
func (e *Engine) RevealedCount(symbol string) (int, error) {
	b, err := e.buffer(symbol)
	if err != nil {
		return 0, err
	}
	return b.Len(), nil
}
