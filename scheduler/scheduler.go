package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs a task at a fixed interval in a background goroutine.
// Runs never overlap: a tick or trigger arriving while the task executes is
// served once the task returns.
type Scheduler struct {
	interval time.Duration
	task     func(context.Context)
	logger   *zap.Logger
	trigger  chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
}

// New creates a new Scheduler instance. logger may be nil.
func New(interval time.Duration, task func(context.Context), logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		interval: interval,
		task:     task,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start begins executing the task at the specified interval
func (s *Scheduler) Start(ctx context.Context, firstRunImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if firstRunImmediately {
			s.run(ctx)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-s.trigger:
				s.run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Trigger requests an extra run as soon as possible. Requests made while one
// is already pending are coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// run executes the task once; a panic is logged and does not stop the schedule
func (s *Scheduler) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", zap.Any("panic", r))
		}
	}()
	if ctx.Err() != nil {
		return
	}
	s.task(ctx)
}

// Stop terminates the periodic task execution and waits for a running task to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
}

// IsRunning returns true if the task is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
