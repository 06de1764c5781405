package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/sse"
)

type fakeNotificationRepo struct {
	mu     sync.Mutex
	stored []*notification.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(_ context.Context, ns []*notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, ns...)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(_ context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*notification.Notification
	for _, n := range f.stored {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeNotificationRepo) GetUnreadCount(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.stored {
		if n.RecipientID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, ids []string, userID string) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID string) error {
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id string, userID string) error {
	return nil
}

func (f *fakeNotificationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

func testNotice(recipient string) notification.Notice {
	return notification.Notice{
		CompanyID:   "company-1",
		RecipientID: recipient,
		Type:        notification.TypeAttendanceValidated,
		Message:     "Your attendance for 2025-03-03 has been validated",
		Redirect:    "/attendance",
	}
}

func TestNotifyBatchInsertAndPublish(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, nil, Config{
		BatchSize:     1,
		FlushInterval: time.Hour,
		WorkerCount:   1,
		QueueSize:     10,
	})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, cleanup := svc.Subscribe(ctx, "user-1")
	defer cleanup()

	svc.Notify(ctx, testNotice("user-1"))

	select {
	case ev := <-out:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, notification.TypeAttendanceValidated, ev.Data.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered to subscriber")
	}

	// Publish happens after the insert, so the row is already stored
	assert.Equal(t, 1, repo.count())
}

func TestSubscribeExitsWhenContextCancelledWithSlowConsumer(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, nil, Config{WorkerCount: 1, QueueSize: 10})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	out, cleanup := svc.Subscribe(ctx, "user-1")
	defer cleanup()

	// Fill past both buffers without ever reading, so the bridge is left
	// blocked mid-send
	for i := 0; i < 30; i++ {
		hub.Publish("user-1", sse.Event{
			UserID: "user-1",
			Event:  "notification",
			Data:   notification.NotificationResponse{ID: fmt.Sprintf("n-%d", i)},
		})
		time.Sleep(time.Millisecond)
	}

	cancel()

	// Cancellation must release the bridge; it closes the channel on exit
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatal("subscription channel never closed after cancel")
		}
	}
}

func TestStopFlushesNoticesStillQueued(t *testing.T) {
	repo := &fakeNotificationRepo{}
	s := &service{
		repo:   repo,
		hub:    sse.NewHub(),
		config: Config{BatchSize: 100, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 10},
		queue:  make(chan notification.Notice, 10),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < 5; i++ {
		s.queue <- testNotice("user-1")
	}

	// The stop signal is already pending when the worker starts; the
	// queued notices must still reach storage
	close(s.stopCh)
	s.wg.Add(1)
	go s.worker(0)
	s.wg.Wait()

	assert.Equal(t, 5, repo.count())
}

func TestNotifyFallsBackToDirectInsertWhenQueueFull(t *testing.T) {
	repo := &fakeNotificationRepo{}
	s := &service{
		repo:   repo,
		hub:    sse.NewHub(),
		config: Config{BatchSize: 100, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 1},
		queue:  make(chan notification.Notice, 1),
		stopCh: make(chan struct{}),
	}

	// No worker is draining, so the second notice finds the queue full
	s.Notify(context.Background(), testNotice("user-1"))
	s.Notify(context.Background(), testNotice("user-2"))

	require.Equal(t, 1, repo.count())
	assert.Equal(t, "user-2", repo.stored[0].RecipientID)
}