package ingest

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"MarketReplay/internal/model"
)

// parquetBar is the row layout of crawled packet files (unix-millisecond
// timestamps, short column names).
type parquetBar struct {
	Timestamp int64   `parquet:"t"`
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    float64 `parquet:"v,optional"`
	AdjClose  float64 `parquet:"ac,optional"`
}

// ParquetAdapter reads {dir}/{SYMBOL}.parquet files of bar rows, so
// crawler packet output can feed a backtest directly.
type ParquetAdapter struct {
	Dir string
}

func NewParquetAdapter(dir string) *ParquetAdapter {
	return &ParquetAdapter{Dir: dir}
}

func (a *ParquetAdapter) Name() string { return "parquet" }

func (a *ParquetAdapter) Fetch(symbol string) (model.RawSeries, error) {
	path := filepath.Join(a.Dir, symbol+".parquet")
	rows, err := parquet.ReadFile[parquetBar](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	bars := make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, model.Bar{
			Time:     time.UnixMilli(r.Timestamp).UTC(),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			Volume:   r.Volume,
			AdjClose: r.AdjClose,
		})
	}
	return normalize(bars), nil
}

// WriteSeries writes the symbol's series as a parquet packet file.
func (a *ParquetAdapter) WriteSeries(symbol string, series model.RawSeries) error {
	rows := make([]parquetBar, len(series))
	for i, b := range series {
		rows[i] = parquetBar{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			AdjClose:  b.AdjClose,
		}
	}
	return parquet.WriteFile(filepath.Join(a.Dir, symbol+".parquet"), rows)
}
