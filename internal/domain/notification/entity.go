package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceValidated NotificationType = "attendance_validated"
	TypeOvertimeApproved    NotificationType = "overtime_approved"
	TypeRequestApproved     NotificationType = "attendance_request_approved"
	TypeRequestCancelled    NotificationType = "attendance_request_cancelled"
	TypeReimbursementClosed NotificationType = "reimbursement_closed"
	TypeAttendanceSwept     NotificationType = "attendance_auto_closed"
)

// Locale identifies a translation of a notification message.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleAR Locale = "ar"
	LocaleDE Locale = "de"
	LocaleES Locale = "es"
	LocaleFR Locale = "fr"
)

// Notification represents a stored notification. Message holds the default
// (English) text; Translations carries the per-locale variants delivered to
// clients that asked for another language.
type Notification struct {
	ID           string
	CompanyID    string
	RecipientID  string
	SenderID     *string
	Type         NotificationType
	Message      string
	Translations map[Locale]string
	Redirect     string
	IsRead       bool
	ReadAt       *time.Time
	CreatedAt    time.Time
}
