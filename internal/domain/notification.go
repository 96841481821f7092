package domain

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is a user-visible message. A nil UserID means the
// notification is a broadcast visible to every user.
type Notification struct {
	ID         int64            `json:"id"`
	UserID     *int64           `json:"user_id,omitempty"`
	AdminID    *int64           `json:"admin_id,omitempty"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	Read       bool             `json:"read"`
	Link       string           `json:"link,omitempty"`
	ValidUntil *time.Time       `json:"valid_until,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
