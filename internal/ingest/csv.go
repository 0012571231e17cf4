package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"MarketReplay/internal/model"
)

// csvHeader is the column layout of on-disk series files:
// one file per symbol, header row, ascending datetimes.
var csvHeader = []string{"datetime", "open", "high", "low", "close", "volume", "adj_close"}

// CSVAdapter reads {dir}/{SYMBOL}.csv files of OHLCV rows.
type CSVAdapter struct {
	Dir string
}

// NewCSVAdapter creates an adapter rooted at the given directory.
func NewCSVAdapter(dir string) *CSVAdapter {
	return &CSVAdapter{Dir: dir}
}

func (a *CSVAdapter) Name() string { return "csv" }

func (a *CSVAdapter) path(symbol string) string {
	return filepath.Join(a.Dir, symbol+".csv")
}

func (a *CSVAdapter) Fetch(symbol string) (model.RawSeries, error) {
	f, err := os.Open(a.path(symbol))
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // adj_close column is optional
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.path(symbol), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", a.path(symbol))
	}

	rows := records
	if records[0][0] == "datetime" {
		rows = records[1:]
	}
	bars := make([]model.Bar, 0, len(rows))
	for i, rec := range rows {
		if len(rec) < 5 {
			return nil, fmt.Errorf("%s row %d: want at least 5 columns, got %d", symbol, i+1, len(rec))
		}
		bar, err := parseCSVBar(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", symbol, i+1, err)
		}
		bars = append(bars, bar)
	}
	return normalize(bars), nil
}

func parseCSVBar(rec []string) (model.Bar, error) {
	if len(rec) > len(csvHeader) {
		rec = rec[:len(csvHeader)]
	}
	t, err := parseDatetime(rec[0])
	if err != nil {
		return model.Bar{}, err
	}
	vals := make([]float64, len(rec)-1)
	for i, s := range rec[1:] {
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("column %q: %w", csvHeader[i+1], err)
		}
		vals[i] = v
	}
	bar := model.Bar{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if len(vals) > 4 {
		bar.Volume = vals[4]
	}
	if len(vals) > 5 {
		bar.AdjClose = vals[5]
	}
	return bar, nil
}

// parseDatetime accepts RFC3339, plain dates, and unix seconds.
func parseDatetime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

// WriteSeries replaces the symbol's series file. Written via a temp file
// and rename so a concurrent Fetch never sees a half-written file.
func (a *CSVAdapter) WriteSeries(symbol string, series model.RawSeries) error {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("create series dir: %w", err)
	}
	tmp, err := os.CreateTemp(a.Dir, symbol+".csv.tmp*")
	if err != nil {
		return fmt.Errorf("create temp series file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, b := range series {
		rec := []string{
			b.Time.UTC().Format(time.RFC3339),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
			floatStr(b.AdjClose),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), a.path(symbol))
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
