package ingest

import (
	"sort"
	"time"

	"MarketReplay/internal/model"
)

// Adapter defines the interface for fetching one symbol's bar history.
// Implementations fetch eagerly (one call per symbol, at engine
// construction) and normalize their output before returning: ascending by
// time, duplicate timestamps collapsed, fields mapped onto model.Bar.
type Adapter interface {
	Fetch(symbol string) (model.RawSeries, error)
	Name() string
}

// normalize sorts the series ascending by time and collapses duplicate
// timestamps, keeping the last occurrence.
func normalize(bars []model.Bar) model.RawSeries {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && b.Time.Equal(out[len(out)-1].Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return model.RawSeries(out)
}

// MockAdapter returns controllable fixed data for development and testing.
type MockAdapter struct {
	Price  float64
	Days   int
	Series map[string]model.RawSeries // per-symbol override
}

func (m *MockAdapter) Name() string { return "mock" }

func (m *MockAdapter) Fetch(symbol string) (model.RawSeries, error) {
	if s, ok := m.Series[symbol]; ok {
		return normalize(append([]model.Bar(nil), s...)), nil
	}
	days := m.Days
	if days == 0 {
		days = 250
	}
	return generateMockBars(m.Price, days), nil
}

func generateMockBars(basePrice float64, count int) model.RawSeries {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make(model.RawSeries, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:     start.AddDate(0, 0, -(count - i)),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		}
	}
	return bars
}
