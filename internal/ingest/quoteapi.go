package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"MarketReplay/internal/model"
)

// HistoryParams selects the period and sampling frequency of a price
// history request.
type HistoryParams struct {
	Period        int    // e.g. 1
	PeriodType    string // day, month, year, ytd
	Frequency     int    // e.g. 1
	FrequencyType string // minute, daily, weekly, monthly
}

// DefaultHistoryParams requests one year of daily bars.
var DefaultHistoryParams = HistoryParams{
	Period:        1,
	PeriodType:    "year",
	Frequency:     1,
	FrequencyType: "daily",
}

// QuoteAPIAdapter fetches price history from a remote quote REST API.
type QuoteAPIAdapter struct {
	BaseURL string
	APIKey  string
	Params  HistoryParams
	Client  *http.Client
}

// NewQuoteAPIAdapter creates a new adapter with optional proxy support.
func NewQuoteAPIAdapter(baseURL, apiKey, proxyURL string, params HistoryParams) *QuoteAPIAdapter {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &QuoteAPIAdapter{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Params:  params,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (a *QuoteAPIAdapter) Name() string { return "quote-api" }

// candle is the expected JSON shape of one history entry. Datetime is
// unix milliseconds; volume may be omitted by the provider.
type candle struct {
	Datetime int64   `json:"datetime"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

type historyResponse struct {
	Symbol  string   `json:"symbol"`
	Candles []candle `json:"candles"`
	Error   string   `json:"error,omitempty"`
}

func (a *QuoteAPIAdapter) Fetch(symbol string) (model.RawSeries, error) {
	p := a.Params
	if p == (HistoryParams{}) {
		p = DefaultHistoryParams
	}
	endpoint := fmt.Sprintf("%s/api/v1/history?symbol=%s&period=%d&period_type=%s&frequency=%d&frequency_type=%s",
		a.BaseURL, url.QueryEscape(symbol), p.Period, p.PeriodType, p.Frequency, p.FrequencyType)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if a.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch history: status %d, body: %s", resp.StatusCode, string(body))
	}

	var hist historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&hist); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if hist.Error != "" {
		return nil, fmt.Errorf("quote api error: %s", hist.Error)
	}
	if len(hist.Candles) == 0 {
		return nil, fmt.Errorf("quote api: no candles for %s", symbol)
	}

	bars := make([]model.Bar, 0, len(hist.Candles))
	for _, c := range hist.Candles {
		bars = append(bars, model.Bar{
			Time:   time.UnixMilli(c.Datetime).UTC(),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return normalize(bars), nil
}
