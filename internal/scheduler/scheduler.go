package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// RunFunc executes one full crawl run and returns it. The scheduler
// does not interpret the error beyond logging it; a fresh run is
// attempted at the next tick regardless.
type RunFunc func(ctx context.Context) (*model.Run, error)

// Scheduler repeats crawl runs on a fixed interval.
type Scheduler struct {
	interval time.Duration
	runFn    RunFunc
	logger   *slog.Logger

	mu      sync.Mutex
	lastRun *model.Run
	nextRun time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets a custom logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a Scheduler that invokes runFn every interval.
func New(interval time.Duration, runFn RunFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: interval,
		runFn:    runFn,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Start blocks, running one crawl immediately and then one per
// interval, until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.setNextRun(time.Now().Add(s.interval))
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			s.setNextRun(time.Now().Add(s.interval))
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single run, isolating the scheduler from any
// failure mode of the engine, panics included. The recover here is
// what keeps "run-level failure" from becoming "process failure".
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("crawl run panicked",
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()

	start := time.Now()
	run, err := s.runFn(ctx)
	if run != nil {
		s.setLastRun(run)
	}

	if err != nil {
		s.logger.Error("crawl run failed",
			"duration", time.Since(start),
			"error", err,
		)
		return
	}

	s.logger.Info("crawl run finished",
		"duration", time.Since(start),
		"urls", len(run.Discovered),
		"failed_pages", run.PagesFailed(),
	)
}

// LastRun returns the most recent run, nil before the first finishes.
func (s *Scheduler) LastRun() *model.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// NextRun returns when the next run is scheduled to start.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun
}

func (s *Scheduler) setLastRun(run *model.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = run
}

func (s *Scheduler) setNextRun(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRun = t
}
