package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"MarketReplay/internal/ingest"
	"MarketReplay/internal/model"
)

// SeriesWriter persists a fetched series to the local cache.
type SeriesWriter interface {
	WriteSeries(symbol string, series model.RawSeries) error
}

// Refresher keeps the local series cache current by periodically pulling
// fresh history from a remote adapter. Replay itself never touches the
// network; this job runs between backtests.
type Refresher struct {
	Cron    *cron.Cron
	Source  ingest.Adapter
	Sink    SeriesWriter
	Symbols []string
	Ctx     context.Context
}

// NewRefresher creates a new Refresher.
func NewRefresher(ctx context.Context, source ingest.Adapter, sink SeriesWriter, symbols []string) *Refresher {
	return &Refresher{
		Cron:    cron.New(cron.WithSeconds()),
		Source:  source,
		Sink:    sink,
		Symbols: symbols,
		Ctx:     ctx,
	}
}

// RegisterAll registers the refresh task with the given cron spec.
func (r *Refresher) RegisterAll(refreshCron string) error {
	if _, err := r.Cron.AddFunc(refreshCron, r.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Refresher) Start() {
	r.Cron.Start()
	log.Println("[INFO] refresh scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (r *Refresher) Stop() {
	r.Cron.Stop()
	log.Println("[INFO] refresh scheduler stopped")
}

// RunNow executes the refresh task immediately (for manual trigger).
func (r *Refresher) RunNow() {
	r.refreshTask()
}

func (r *Refresher) refreshTask() {
	log.Printf("[INFO] refreshing %d symbols from %s", len(r.Symbols), r.Source.Name())
	for _, s := range r.Symbols {
		select {
		case <-r.Ctx.Done():
			log.Println("[WARN] refresh aborted: context cancelled")
			return
		default:
		}
		series, err := r.Source.Fetch(s)
		if err != nil {
			log.Printf("[ERROR] refresh %s: %v", s, err)
			continue
		}
		if err := r.Sink.WriteSeries(s, series); err != nil {
			log.Printf("[ERROR] write %s series: %v", s, err)
			continue
		}
		log.Printf("[INFO] refreshed %s: %d bars", s, len(series))
	}
}
