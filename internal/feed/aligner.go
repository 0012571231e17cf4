package feed

import (
	"fmt"
	"sort"
	"time"

	"MarketReplay/internal/model"
)

// AlignedBar is one position of a symbol's aligned series. Absent marks
// positions on the time axis that precede the symbol's first observation;
// once a symbol has a real bar, forward-fill guarantees every later
// position carries one.
type AlignedBar struct {
	Bar    model.Bar
	Absent bool
}

// cursor walks one symbol's raw series along the shared time axis,
// forward-filling as it goes. Forward-only: consumed positions cannot be
// revisited, past bars live in the symbol's ReplayBuffer.
type cursor struct {
	axis []time.Time
	raw  model.RawSeries
	pos  int // next axis position to emit
	idx  int // raw bars at or before axis[pos-1]
}

func (c *cursor) next() (AlignedBar, bool) {
	if c.pos >= len(c.axis) {
		return AlignedBar{}, false
	}
	t := c.axis[c.pos]
	c.pos++
	for c.idx < len(c.raw) && !c.raw[c.idx].Time.After(t) {
		c.idx++
	}
	if c.idx == 0 {
		return AlignedBar{Absent: true}, true
	}
	return AlignedBar{Bar: c.raw[c.idx-1]}, true
}

// buildTimeAxis returns the sorted, deduplicated union of the registered
// symbols' timestamps. Series present in the map but not registered do
// not contribute positions.
func buildTimeAxis(series map[string]model.RawSeries, symbols []string) []time.Time {
	var axis []time.Time
	for _, s := range symbols {
		for _, b := range series[s] {
			axis = append(axis, b.Time)
		}
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })
	dedup := axis[:0]
	for _, t := range axis {
		if len(dedup) == 0 || t.After(dedup[len(dedup)-1]) {
			dedup = append(dedup, t)
		}
	}
	return dedup
}

// buildAligned validates every raw series and produces one forward-fill
// cursor per symbol, all positionally aligned with the returned time axis.
func buildAligned(series map[string]model.RawSeries, symbols []string) ([]time.Time, map[string]*cursor, error) {
	if len(symbols) == 0 {
		return nil, nil, fmt.Errorf("%w: no symbols registered", ErrUnknownSymbol)
	}
	for _, s := range symbols {
		raw, ok := series[s]
		if !ok || len(raw) == 0 {
			return nil, nil, fmt.Errorf("%w: symbol %q has no history", ErrNonMonotonicSeries, s)
		}
		if err := raw.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: symbol %q: %v", ErrNonMonotonicSeries, s, err)
		}
	}
	axis := buildTimeAxis(series, symbols)
	cursors := make(map[string]*cursor, len(symbols))
	for _, s := range symbols {
		cursors[s] = &cursor{axis: axis, raw: series[s]}
	}
	return axis, cursors, nil
}
