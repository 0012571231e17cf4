package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketReplay/internal/config"
	"MarketReplay/internal/event"
	"MarketReplay/internal/feed"
	"MarketReplay/internal/ingest"
	"MarketReplay/internal/recorder"
	"MarketReplay/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	refreshMode := flag.Bool("refresh", false, "run the series-cache refresher instead of a replay")
	flag.Parse()

	log.Println("[INFO] MarketReplay starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if *refreshMode {
		runRefresh(cfg)
		return
	}
	runReplay(cfg)
}

func newAdapter(cfg *config.Config) ingest.Adapter {
	switch cfg.Data.Source {
	case "api":
		return ingest.NewQuoteAPIAdapter(cfg.API.BaseURL, cfg.API.APIKey, cfg.Proxy, ingest.HistoryParams{
			Period:        cfg.API.Period,
			PeriodType:    cfg.API.PeriodType,
			Frequency:     cfg.API.Frequency,
			FrequencyType: cfg.API.FrequencyType,
		})
	case "parquet":
		return ingest.NewParquetAdapter(cfg.Data.ParquetDir)
	case "mock":
		return &ingest.MockAdapter{Price: 100}
	default:
		return ingest.NewCSVAdapter(cfg.Data.CSVDir)
	}
}

func runReplay(cfg *config.Config) {
	adapter := newAdapter(cfg)
	log.Printf("[INFO] data source: %s", adapter.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	bus := event.NewBus(cfg.Events.Buffer)

	started := time.Now()
	engine, err := feed.New(adapter, cfg.Symbols, bus)
	if err != nil {
		log.Fatalf("[FATAL] build replay engine: %v", err)
	}
	log.Printf("[INFO] engine ready: %d symbols, %d axis positions", len(cfg.Symbols), len(engine.TimeAxis()))

	// Replay loop: one tick per pass, drain the bus, record new bars.
	for engine.AdvanceAll() {
		bus.TryNext()
		for _, s := range cfg.Symbols {
			bar, err := engine.LatestBar(s)
			if err != nil {
				// Symbol has not started yet at this axis position.
				continue
			}
			if err := rec.RecordBar(s, engine.Passes(), bar); err != nil {
				log.Printf("[WARN] record bar %s: %v", s, err)
			}
		}
	}

	sum := &recorder.RunSummary{
		StartedAt:    started,
		FinishedAt:   time.Now(),
		Source:       adapter.Name(),
		Symbols:      cfg.Symbols,
		Passes:       engine.Passes(),
		AxisLen:      len(engine.TimeAxis()),
		BarsRevealed: make(map[string]int, len(cfg.Symbols)),
		DroppedEvts:  bus.Dropped(),
	}
	for _, s := range cfg.Symbols {
		n, _ := engine.RevealedCount(s)
		sum.BarsRevealed[s] = n
		log.Printf("[INFO] %s: %d bars revealed", s, n)
	}
	if err := rec.RecordRun(sum); err != nil {
		log.Printf("[WARN] record run summary: %v", err)
	}
	log.Printf("[INFO] replay finished: %d passes in %s (%d events dropped)",
		sum.Passes, sum.FinishedAt.Sub(sum.StartedAt).Round(time.Millisecond), sum.DroppedEvts)
}

func runRefresh(cfg *config.Config) {
	if cfg.API.BaseURL == "" {
		log.Fatal("[FATAL] refresh mode requires api.base_url")
	}
	source := ingest.NewQuoteAPIAdapter(cfg.API.BaseURL, cfg.API.APIKey, cfg.Proxy, ingest.HistoryParams{
		Period:        cfg.API.Period,
		PeriodType:    cfg.API.PeriodType,
		Frequency:     cfg.API.Frequency,
		FrequencyType: cfg.API.FrequencyType,
	})
	sink := ingest.NewCSVAdapter(cfg.Data.CSVDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref := scheduler.NewRefresher(ctx, source, sink, cfg.Symbols)
	if err := ref.RegisterAll(cfg.Refresh.Cron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	ref.Start()
	defer ref.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing now")
		go ref.RunNow()
	}

	log.Println("[INFO] refresher is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] MarketReplay stopped")
}
