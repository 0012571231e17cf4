package ingest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuoteAPIAdapter_Fetch(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"symbol":"SPY","candles":[
			{"datetime":2000,"open":2,"high":3,"low":1,"close":2.5,"volume":100},
			{"datetime":1000,"open":1,"high":2,"low":0.5,"close":1.5}
		]}`)
	}))
	defer srv.Close()

	a := NewQuoteAPIAdapter(srv.URL, "secret", "", DefaultHistoryParams)
	series, err := a.Fetch("SPY")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotQuery != "symbol=SPY&period=1&period_type=year&frequency=1&frequency_type=daily" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(series) != 2 {
		t.Fatalf("got %d bars, want 2", len(series))
	}
	// Adapter must sort ascending regardless of response order.
	if series[0].Time.UnixMilli() != 1000 || series[1].Time.UnixMilli() != 2000 {
		t.Errorf("series not sorted: %v, %v", series[0].Time, series[1].Time)
	}
	if series[0].Volume != 0 {
		t.Errorf("omitted volume should stay zero, got %v", series[0].Volume)
	}
	if series[1].Close != 2.5 || series[1].Volume != 100 {
		t.Errorf("bar 1: %+v", series[1])
	}
}

func TestQuoteAPIAdapter_ErrorResponses(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()
		if _, err := NewQuoteAPIAdapter(srv.URL, "", "", DefaultHistoryParams).Fetch("SPY"); err == nil {
			t.Error("expected error for non-200 status")
		}
	})

	t.Run("api error field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"symbol":"SPY","candles":[],"error":"unknown symbol"}`)
		}))
		defer srv.Close()
		if _, err := NewQuoteAPIAdapter(srv.URL, "", "", DefaultHistoryParams).Fetch("SPY"); err == nil {
			t.Error("expected error for api error payload")
		}
	})

	t.Run("no candles", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"symbol":"SPY","candles":[]}`)
		}))
		defer srv.Close()
		if _, err := NewQuoteAPIAdapter(srv.URL, "", "", DefaultHistoryParams).Fetch("SPY"); err == nil {
			t.Error("expected error for empty candle set")
		}
	})
}
