package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/email"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo    notification.Repository
	hub     *sse.Hub
	emailer email.EmailService
	config  Config

	queue  chan notification.Notice
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a notification service with background
// workers. The emailer may be nil; notices then skip email delivery.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, emailer email.EmailService, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:    repo,
		hub:     hub,
		emailer: emailer,
		config:  cfg,
		queue:   make(chan notification.Notice, cfg.QueueSize),
		stopCh:  make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker drains the notice queue, flushing in batches either when the batch
// fills or on the flush interval.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Notice, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.flushBatch(id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case notice := <-s.queue:
			batch = append(batch, notice)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is still queued before the final flush
			for {
				select {
				case notice := <-s.queue:
					batch = append(batch, notice)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) flushBatch(workerID int, batch []notification.Notice) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	notifications := make([]*notification.Notification, len(batch))
	for i, notice := range batch {
		notifications[i] = entityFromNotice(notice)
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("failed to batch insert notifications", "worker", workerID, "count", len(notifications), "error", err)
		return
	}

	for i, n := range notifications {
		s.hub.Publish(n.RecipientID, sse.Event{
			UserID: n.RecipientID,
			Event:  "notification",
			Data:   toResponse(n),
		})
		s.sendEmail(batch[i])
	}
}

// sendEmail delivers the notice by email when an address is attached.
func (s *service) sendEmail(notice notification.Notice) {
	if s.emailer == nil || notice.EmailTo == "" {
		return
	}
	if err := s.emailer.SendNotice(notice.EmailTo, "", emailSubjects[notice.Type], notice.Message, notice.Redirect); err != nil {
		slog.Warn("failed to send notification email", "to", notice.EmailTo, "type", notice.Type, "error", err)
	}
}

var emailSubjects = map[notification.NotificationType]string{
	notification.TypeAttendanceValidated: "Attendance validated",
	notification.TypeOvertimeApproved:    "Overtime approved",
	notification.TypeRequestApproved:     "Attendance request approved",
	notification.TypeRequestCancelled:    "Attendance request cancelled",
	notification.TypeReimbursementClosed: "Reimbursement processed",
	notification.TypeAttendanceSwept:     "Attendance closed automatically",
}

func entityFromNotice(notice notification.Notice) *notification.Notification {
	return &notification.Notification{
		ID:           uuid.New().String(),
		CompanyID:    notice.CompanyID,
		RecipientID:  notice.RecipientID,
		SenderID:     notice.SenderID,
		Type:         notice.Type,
		Message:      notice.Message,
		Translations: notice.Translations,
		Redirect:     notice.Redirect,
		IsRead:       false,
		CreatedAt:    time.Now(),
	}
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Message:      n.Message,
		Translations: n.Translations,
		Redirect:     n.Redirect,
		IsRead:       n.IsRead,
		ReadAt:       n.ReadAt,
		CreatedAt:    n.CreatedAt,
	}
}

// Notify queues a notice for async processing. When the queue is full the
// notice is inserted directly; when that also fails it is dropped with a
// log line. Callers never observe delivery problems.
func (s *service) Notify(ctx context.Context, notice notification.Notice) {
	select {
	case s.queue <- notice:
	default:
		if err := s.directInsert(ctx, notice); err != nil {
			slog.Error("dropped notification", "recipient", notice.RecipientID, "type", notice.Type, "error", err)
		}
	}
}

// directInsert inserts a notification synchronously when the queue is full.
func (s *service) directInsert(ctx context.Context, notice notification.Notice) error {
	n := entityFromNotice(notice)

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.hub.Publish(n.RecipientID, sse.Event{
		UserID: n.RecipientID,
		Event:  "notification",
		Data:   toResponse(n),
	})
	s.sendEmail(notice)

	return nil
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete removes a notification
func (s *service) Delete(ctx context.Context, userID string, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, userID)
}

// Subscribe creates an SSE subscription for a user
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					select {
					case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service, flushing queued notices.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("notification service stopped")
}
