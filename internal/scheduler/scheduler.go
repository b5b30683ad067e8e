package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// cycleTimeout bounds one refresh cycle so a stalled request cannot block
// the next tick forever.
const cycleTimeout = 2 * time.Minute

// defaultInterval matches the provider's published refresh cadence.
const defaultInterval = 610 * time.Second

// Refresher is the piece of the coordinator the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs the refresh cycle on a fixed period. The job is singleton:
// a tick arriving while a cycle is still in flight is deferred, never run
// concurrently.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
}

// New creates a Scheduler driving the given refresher every interval.
func New(refresher Refresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
	}
}

// Start runs the first refresh synchronously, then schedules the periodic
// job. Callers therefore never observe a snapshot-less coordinator: if the
// initial refresh fails, Start fails and nothing is scheduled.
func (s *Scheduler) Start(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()
	if err := s.refresher.Refresh(initCtx); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}

	seconds := int(s.interval.Seconds())
	_, err := s.scheduler.Every(seconds).Seconds().WaitForSchedule().SingletonMode().Do(func() {
		log.Println("scheduler: running weather refresh job")

		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		if err := s.refresher.Refresh(ctx); err != nil {
			log.Printf("scheduler: refresh failed: %v", err)
			return
		}
		log.Println("scheduler: completed weather refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
