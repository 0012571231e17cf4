package feed

import (
	"MarketReplay/internal/model"
)

// ReplayBuffer holds the bars already revealed for one symbol. It grows
// only through Advance and keeps the full history for the engine's
// lifetime.
type ReplayBuffer struct {
	cur     *cursor
	history []model.Bar
}

func newReplayBuffer(cur *cursor) *ReplayBuffer {
	return &ReplayBuffer{cur: cur}
}

// Advance pulls the next aligned position off the cursor. The second
// return is false once the series is exhausted. Absent positions (time
// axis entries before the symbol's first observation) are returned but
// never appended to the history.
func (b *ReplayBuffer) Advance() (AlignedBar, bool) {
	ab, ok := b.cur.next()
	if !ok {
		return AlignedBar{}, false
	}
	if !ab.Absent {
		b.history = append(b.history, ab.Bar)
	}
	return ab, true
}

// Len returns the number of bars revealed so far.
func (b *ReplayBuffer) Len() int { return len(b.history) }

// LatestBar returns the most recently revealed bar.
func (b *ReplayBuffer) LatestBar() (model.Bar, error) {
	if len(b.history) == 0 {
		return model.Bar{}, ErrNoDataYet
	}
	return b.history[len(b.history)-1], nil
}

// LatestBars returns up to the last n revealed bars, most recent last.
// Shorter histories are returned whole; n <= 0 yields an empty slice.
func (b *ReplayBuffer) LatestBars(n int) []model.Bar {
	if n <= 0 {
		return nil
	}
	if n > len(b.history) {
		n = len(b.history)
	}
	out := make([]model.Bar, n)
	copy(out, b.history[len(b.history)-n:])
	return out
}

// LatestBarField extracts one named field from the latest bar.
func (b *ReplayBuffer) LatestBarField(f model.Field) (float64, error) {
	bar, err := b.LatestBar()
	if err != nil {
		return 0, err
	}
	return f.Value(bar)
}

// LatestBarsFields extracts one named field across the last n bars, with
// the same truncation rule as LatestBars.
func (b *ReplayBuffer) LatestBarsFields(f model.Field, n int) ([]float64, error) {
	// Validate the field even when the window is empty.
	if _, err := f.Value(model.Bar{}); err != nil {
		return nil, err
	}
	bars := b.LatestBars(n)
	out := make([]float64, len(bars))
	for i, bar := range bars {
		v, _ := f.Value(bar)
		out[i] = v
	}
	return out, nil
}
