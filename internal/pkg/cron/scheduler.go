package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is one scheduled unit of work. The context it receives is
// cancelled when the scheduler stops.
type JobFunc func(ctx context.Context) error

type job struct {
	name  string
	every time.Duration
	run   JobFunc
}

// Scheduler fires each registered job right after Start and then on its
// interval until Stop.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []job
	cancel context.CancelFunc
	done   sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob registers a job. Registration after Start has no effect.
func (s *Scheduler) AddJob(name string, every time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, every: every, run: fn})
	slog.Info("cron job registered", "job", name, "interval", every)
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.cancel = cancel
	jobs := make([]job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, j := range jobs {
		s.done.Add(1)
		go func(j job) {
			defer s.done.Done()
			s.loop(ctx, j)
		}(j)
	}

	slog.Info("cron scheduler started", "jobs", len(jobs))
}

// Stop cancels every job context and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.done.Wait()
	slog.Info("cron scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	s.fire(ctx, j)

	for {
		select {
		case <-ticker.C:
			s.fire(ctx, j)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, j job) {
	start := time.Now()
	if err := j.run(ctx); err != nil {
		slog.Error("cron job failed", "job", j.name, "error", err, "elapsed", time.Since(start))
		return
	}
	slog.Debug("cron job finished", "job", j.name, "elapsed", time.Since(start))
}
