package domain

import (
	"fmt"
	"strings"
	"time"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// ParseDecision accepts only the two terminal statuses an administrator
// may set.
func ParseDecision(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(strings.ToLower(s)) {
	case ApprovalStatusApproved:
		return ApprovalStatusApproved, nil
	case ApprovalStatusRejected:
		return ApprovalStatusRejected, nil
	}
	return "", fmt.Errorf("invalid decision %q", s)
}

// BookingStatusFor maps a terminal ticket status to the ledger status it
// implies.
func (s ApprovalStatus) BookingStatusFor() BookingStatus {
	if s == ApprovalStatusApproved {
		return BookingStatusConfirmed
	}
	return BookingStatusRejected
}

// ApprovalTicket is the one-to-one review record attached to a booking.
// At most one ticket exists per (BookingKind, BookingID) pair.
type ApprovalTicket struct {
	ID          int64          `json:"id"`
	BookingKind BookingKind    `json:"booking_type"`
	BookingID   int64          `json:"booking_id"`
	Status      ApprovalStatus `json:"status"`
	AdminID     *int64         `json:"admin_id,omitempty"`
	AdminNotes  string         `json:"admin_notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
