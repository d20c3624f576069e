package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const defaultInterval = 5 * time.Minute

// Sweeper evicts expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// Scheduler periodically evicts idle lookup sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
}

// New creates a new Scheduler.
func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.sweeper == nil {
		slog.Info("scheduler: no sweeper configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) sweep() {
	removed := s.sweeper.Sweep()
	if removed > 0 {
		slog.Info("scheduler: evicted idle sessions", slog.Int("count", removed))
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
