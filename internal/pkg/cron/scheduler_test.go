package cron

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerFiresJobOnStart(t *testing.T) {
	s := NewScheduler()

	fired := make(chan struct{}, 1)
	s.AddJob("ping", time.Hour, func(ctx context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not fire after start")
	}
}

func TestSchedulerStopCancelsRunningJob(t *testing.T) {
	s := NewScheduler()

	s.AddJob("blocker", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	s.Start()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not release the blocked job")
	}
}
