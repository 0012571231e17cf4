package model

import (
	"fmt"
	"time"
)

// Bar represents a single candlestick observation for one symbol.
// Volume and AdjClose stay zero when the source does not provide them.
type Bar struct {
	Time     time.Time `json:"datetime"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume,omitempty"`
	AdjClose float64   `json:"adjusted_close,omitempty"`
}

// RawSeries is one symbol's bar history as delivered by an ingestion
// adapter: ascending by time, no duplicate timestamps.
type RawSeries []Bar

// Validate reports the first ordering violation in the series.
func (s RawSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return fmt.Errorf("bars %d and %d out of order (%s >= %s)",
				i-1, i, s[i-1].Time.Format(time.RFC3339), s[i].Time.Format(time.RFC3339))
		}
	}
	return nil
}
