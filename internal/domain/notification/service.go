package notification

import (
	"context"
)

// Service defines the notification service interface. Notify is strictly
// best-effort: it must never return an error to its caller, and attendance
// mutations must not be aborted by delivery problems.
type Service interface {
	// Notify queues a notice for async processing via background workers
	Notify(ctx context.Context, notice Notice)

	// Direct operations
	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	// SSE subscription
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
