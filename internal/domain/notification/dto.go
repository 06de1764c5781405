package notification

import (
	"time"
)

// Notice is a fire-and-forget notification request. Delivery failures are
// logged and swallowed; callers never see them.
type Notice struct {
	CompanyID    string
	RecipientID  string
	SenderID     *string
	Type         NotificationType
	Message      string
	Translations map[Locale]string
	Redirect     string

	// EmailTo, when set, also sends the notice by email (best effort)
	EmailTo string
}

type NotificationResponse struct {
	ID           string            `json:"id"`
	Type         NotificationType  `json:"type"`
	Message      string            `json:"message"`
	Translations map[Locale]string `json:"translations,omitempty"`
	Redirect     string            `json:"redirect,omitempty"`
	IsRead       bool              `json:"is_read"`
	ReadAt       *time.Time        `json:"read_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// StreamTokenResponse carries the short-lived token used to open the
// notification stream; browsers cannot attach headers to EventSource.
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}
