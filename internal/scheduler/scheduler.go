// Package scheduler drives the once-a-day collection cycle. It fires shortly
// before local midnight, waits for the day boundary so the snapshot lands on
// the new day's start, runs the collector, and then notifies a callback that
// decides whether period highlights are due.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/calendar"
	"github.com/wizardassassin/hypixel-guild-highlight-reel/internal/collector"
)

// Scheduler triggers the daily snapshot collection at a fixed local time.
type Scheduler struct {
	collector *collector.Collector
	loc       *time.Location
	hour      int
	minute    int

	// onCollected runs after a successful cycle with the cycle's local
	// timestamp. Nil is allowed.
	onCollected func(ctx context.Context, now time.Time)

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a Scheduler firing daily at hour:minute in loc.
func New(c *collector.Collector, loc *time.Location, hour, minute int, onCollected func(ctx context.Context, now time.Time)) *Scheduler {
	return &Scheduler{
		collector:   c,
		loc:         loc,
		hour:        hour,
		minute:      minute,
		onCollected: onCollected,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the scheduling loop
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting scheduler", "hour", s.hour, "minute", s.minute, "zone", s.loc.String())

	s.wg.Add(1)
	defer s.wg.Done()

	for {
		next := s.nextRun(time.Now().In(s.loc))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Scheduler stopped (context cancelled)")
			return
		case <-s.stopChan:
			timer.Stop()
			slog.Info("Scheduler stopped")
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

// Stop signals the scheduler to stop
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// nextRun returns the next fire time strictly after now.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// boundaryHold returns how long runOnce should hold before collecting. A
// fire time in the last hour of the day waits out the remainder plus a
// little slack so the snapshot is stamped with the new day's start; earlier
// fire times collect right away on the fire day.
func (s *Scheduler) boundaryHold(now time.Time) time.Duration {
	boundary := calendar.StartOfDay(now, s.loc).AddDate(0, 0, 1)
	remaining := boundary.Sub(now)
	if remaining > time.Hour {
		return 0
	}
	return remaining + 2*time.Second
}

func (s *Scheduler) runOnce(ctx context.Context) {
	now := time.Now().In(s.loc)
	if wait := s.boundaryHold(now); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	now = time.Now().In(s.loc)
	start := time.Now()
	if err := s.collector.Collect(ctx); err != nil {
		slog.Error("Daily collection failed", "error", err)
		return
	}
	slog.Info("Daily collection finished", "elapsed", time.Since(start))

	if s.onCollected != nil {
		s.onCollected(ctx, now)
	}
}
