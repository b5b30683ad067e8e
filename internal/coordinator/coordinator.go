// Package coordinator drives the refresh cycle: it fetches the trend,
// hourly and current payloads, applies the per-endpoint failure policy and
// publishes one immutable snapshot per successful cycle.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/kachelmann-weather/internal/kachelmann"
	"github.com/i474232898/kachelmann-weather/internal/weather"
)

// API is the slice of the provider client the coordinator consumes.
type API interface {
	FetchDailyTrend(ctx context.Context, lat, lon float64, etag string) ([]weather.DailyEntry, string, error)
	FetchHourlyFine(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error)
	FetchHourlyCoarse(ctx context.Context, lat, lon float64) ([]weather.HourlyEntry, error)
	FetchCurrent(ctx context.Context, lat, lon float64) (*weather.CurrentReading, error)
}

// Store is where completed snapshots are published.
type Store interface {
	Publish(*weather.Snapshot)
	Latest() (*weather.Snapshot, error)
}

// Config carries the per-location refresh settings.
type Config struct {
	Latitude        float64
	Longitude       float64
	ForecastEnabled bool
}

// Coordinator owns one location's refresh cycle. Refresh is single-flight:
// concurrent calls serialize, so a slow cycle delays the next rather than
// overlapping it.
type Coordinator struct {
	api   API
	store Store
	cfg   Config

	mu        sync.Mutex
	trendETag string
	lastDaily []weather.DailyEntry

	healthy atomic.Bool
}

func New(api API, store Store, cfg Config) *Coordinator {
	return &Coordinator{
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

// Refresh runs one full cycle. On success the new snapshot replaces the
// published one; on failure the previous snapshot stays published and the
// coordinator reports unhealthy until a cycle succeeds again.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	refreshID := uuid.New().String()
	start := time.Now()

	snap, err := c.runCycle(ctx)
	if err != nil {
		c.healthy.Store(false)
		log.Printf("coordinator: refresh %s failed after %s: %v", refreshID, time.Since(start).Round(time.Millisecond), err)
		return fmt.Errorf("refresh failed: %w", err)
	}

	c.store.Publish(snap)
	c.healthy.Store(true)
	log.Printf("coordinator: refresh %s published snapshot in %s", refreshID, time.Since(start).Round(time.Millisecond))
	return nil
}

// runCycle fetches all four payloads and assembles the snapshot. The trend
// endpoint is load-bearing: any unexpected status there fails the cycle.
// Unexpected statuses on the hourly and current endpoints only blank the
// corresponding field. Transport and decode errors are fatal everywhere.
func (c *Coordinator) runCycle(ctx context.Context) (*weather.Snapshot, error) {
	if !c.cfg.ForecastEnabled {
		// Forecast retrieval off disables every fetch, current conditions
		// included; consumers see a snapshot with all fields absent.
		return &weather.Snapshot{FetchedAt: time.Now().UTC()}, nil
	}

	lat, lon := c.cfg.Latitude, c.cfg.Longitude
	prevETag := c.trendETag
	prevDaily := c.lastDaily

	var (
		daily    []weather.DailyEntry
		fine     []weather.HourlyEntry
		coarse   []weather.HourlyEntry
		current  *weather.CurrentReading
		nextETag string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, etag, err := c.api.FetchDailyTrend(gctx, lat, lon, prevETag)
		if errors.Is(err, kachelmann.ErrNotModified) {
			daily = prevDaily
			nextETag = etag
			return nil
		}
		if err != nil {
			return fmt.Errorf("trend fetch: %w", err)
		}
		daily = entries
		nextETag = etag
		return nil
	})

	g.Go(func() error {
		entries, err := c.api.FetchHourlyFine(gctx, lat, lon)
		if err != nil {
			if se, ok := kachelmann.IsStatusError(err); ok {
				log.Printf("coordinator: hourly forecast unavailable: %v", se)
				return nil
			}
			return fmt.Errorf("hourly fetch: %w", err)
		}
		fine = entries
		return nil
	})

	g.Go(func() error {
		entries, err := c.api.FetchHourlyCoarse(gctx, lat, lon)
		if err != nil {
			if se, ok := kachelmann.IsStatusError(err); ok {
				log.Printf("coordinator: 3h forecast unavailable: %v", se)
				return nil
			}
			return fmt.Errorf("3h fetch: %w", err)
		}
		coarse = entries
		return nil
	})

	g.Go(func() error {
		reading, err := c.api.FetchCurrent(gctx, lat, lon)
		if err != nil {
			if se, ok := kachelmann.IsStatusError(err); ok {
				log.Printf("coordinator: current conditions unavailable: %v", se)
				return nil
			}
			return fmt.Errorf("current fetch: %w", err)
		}
		current = reading
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.trendETag = nextETag
	c.lastDaily = daily

	return &weather.Snapshot{
		Current:      current,
		Daily:        daily,
		HourlyFine:   fine,
		HourlyCoarse: coarse,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// Snapshot returns the latest published snapshot.
func (c *Coordinator) Snapshot() (*weather.Snapshot, error) {
	return c.store.Latest()
}

// Healthy reports whether the most recent refresh cycle succeeded.
func (c *Coordinator) Healthy() bool {
	return c.healthy.Load()
}
