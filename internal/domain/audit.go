package domain

import "time"

const (
	AuditActionBookingSubmitted = "booking_submitted"
	AuditActionBookingApproved  = "booking_approved"
	AuditActionBookingRejected  = "booking_rejected"
	AuditActionNotificationSent = "notification_sent"
)

// AuditEntry is an append-only record of an administrative or
// user-initiated action. AdminID is nil when the actor is a regular
// user, as on booking submission.
type AuditEntry struct {
	ID         int64     `json:"id"`
	AdminID    *int64    `json:"admin_id,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
