// Package refresher keeps the persisted flight status cache fresh. A
// single background loop fans out over the distinct flight numbers on
// operationally relevant jobs, fetching each one sequentially and writing
// results back through the job store.
package refresher

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/aerolift/dispatch/internal/logger"
	"github.com/aerolift/dispatch/internal/metrics"
	"github.com/aerolift/dispatch/internal/model"
)

// activeWindowDays bounds the refresh workload: only flights on jobs whose
// pickup date falls within the trailing week (or the future) are refreshed.
const activeWindowDays = 7

// JobStore is the slice of the job repository the refresher writes through.
type JobStore interface {
	DistinctActiveFlightNumbers(ctx context.Context, since string) ([]string, error)
	UpdateFlightCache(ctx context.Context, flightNumber, status, data string, at time.Time) (int64, error)
	MarkFlightNotFound(ctx context.Context, flightNumber string, at time.Time) error
}

// Fetcher looks up one flight's status snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, flightNumber string) (*model.FlightStatus, error)
}

// Refresher runs refresh passes on a fixed schedule plus once shortly
// after startup. Passes never overlap: a tick arriving while a pass is
// still running is dropped.
type Refresher struct {
	store   JobStore
	fetcher Fetcher
	log     logger.Logger
	metrics *metrics.Metrics

	interval     time.Duration
	startupDelay time.Duration
	pause        time.Duration
	enabled      bool

	running atomic.Bool
}

func New(store JobStore, fetcher Fetcher, log logger.Logger, m *metrics.Metrics,
	interval, startupDelay, pause time.Duration, enabled bool) *Refresher {
	return &Refresher{
		store:        store,
		fetcher:      fetcher,
		log:          log,
		metrics:      m,
		interval:     interval,
		startupDelay: startupDelay,
		pause:        pause,
		enabled:      enabled,
	}
}

// Summary reports what one pass did.
type Summary struct {
	Flights  int // distinct flight numbers considered
	Updated  int // flights whose cache rows were overwritten
	NotFound int // flights the provider had no data for or failed on
	Errors   int // store or fetch errors
	Skipped  bool
}

// Start blocks until ctx is cancelled, running one pass after the startup
// delay and then one per interval. It never returns an error to its
// caller; individual pass failures are logged and counted.
func (r *Refresher) Start(ctx context.Context) {
	if !r.enabled {
		r.log.Warn("flight status refresh disabled: no aviationstack api key configured")
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(r.startupDelay):
		r.log.Info("running initial flight status refresh")
		r.RunPass(ctx)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("flight status refresher stopped")
			return
		case <-ticker.C:
			r.RunPass(ctx)
		}
	}
}

// RunPass executes one refresh pass. If a pass is already in flight the
// call returns immediately with Skipped set; both passes would write the
// same rows, so overlapping work is dropped rather than queued.
func (r *Refresher) RunPass(ctx context.Context) Summary {
	if !r.running.CompareAndSwap(false, true) {
		r.log.Debug("refresh pass already running, dropping tick")
		return Summary{Skipped: true}
	}
	defer r.running.Store(false)

	start := time.Now()
	since := time.Now().UTC().AddDate(0, 0, -activeWindowDays).Format("2006-01-02")

	flights, err := r.store.DistinctActiveFlightNumbers(ctx, since)
	if err != nil {
		r.log.Error("listing active flight numbers failed", "error", err)
		r.metrics.ErrorsCount.WithLabelValues("list_flights").Inc()
		return Summary{Errors: 1}
	}

	summary := Summary{Flights: len(flights)}
	for i, flightNumber := range flights {
		// Throttle between flights to stay under the provider rate limit.
		if i > 0 && !r.sleep(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		r.refreshOne(ctx, flightNumber, &summary)
	}

	r.metrics.RefreshPasses.Inc()
	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	r.log.Info("flight status refresh completed",
		"flights", summary.Flights,
		"updated", summary.Updated,
		"not_found", summary.NotFound,
		"errors", summary.Errors,
		"duration", time.Since(start).String())
	return summary
}

func (r *Refresher) refreshOne(ctx context.Context, flightNumber string, summary *Summary) {
	snapshot, err := r.fetcher.Fetch(ctx, flightNumber)
	now := time.Now().UTC()

	if err != nil || snapshot == nil {
		if err != nil {
			summary.Errors++
			r.metrics.ErrorsCount.WithLabelValues("fetch").Inc()
			r.log.Warn("flight status fetch failed", "flight", flightNumber, "error", err)
		} else {
			summary.NotFound++
		}
		// Only rows that never had a status get "Not found"; a stale good
		// value beats a fresh failure.
		if err := r.store.MarkFlightNotFound(ctx, flightNumber, now); err != nil {
			summary.Errors++
			r.metrics.ErrorsCount.WithLabelValues("store").Inc()
			r.log.Error("marking flight not found failed", "flight", flightNumber, "error", err)
		}
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		summary.Errors++
		r.log.Error("encoding flight snapshot failed", "flight", flightNumber, "error", err)
		return
	}
	rows, err := r.store.UpdateFlightCache(ctx, flightNumber, snapshot.Status, string(data), now)
	if err != nil {
		summary.Errors++
		r.metrics.ErrorsCount.WithLabelValues("store").Inc()
		r.log.Error("updating flight cache failed", "flight", flightNumber, "error", err)
		return
	}
	summary.Updated++
	r.metrics.FlightsRefreshed.Inc()
	r.log.Info("flight status updated", "flight", flightNumber, "status", snapshot.Status, "jobs", rows)
}

// sleep waits the inter-flight pause, returning false when ctx is
// cancelled first.
func (r *Refresher) sleep(ctx context.Context) bool {
	t := time.NewTimer(r.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
