package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/postgres"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type ApprovalUseCase interface {
	Decide(ctx context.Context, kind domain.BookingKind, bookingID int64, decision domain.ApprovalStatus, adminID int64, notes string) (*DecisionResult, error)
	ReconcileMissingApprovals(ctx context.Context) (int64, error)
	PendingBookings(ctx context.Context) (*PendingBookings, error)
	RecentAuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// DecisionResult carries the decided ticket and the updated ledger row.
// Exactly one of Flight/Hotel is set, matching the ticket's kind.
type DecisionResult struct {
	Ticket *domain.ApprovalTicket `json:"ticket"`
	Flight *domain.FlightBooking  `json:"flight,omitempty"`
	Hotel  *domain.HotelBooking   `json:"hotel,omitempty"`
}

type PendingBookings struct {
	Flights []repository.PendingFlightBooking `json:"flights"`
	Hotels  []repository.PendingHotelBooking  `json:"hotels"`
}

// ApprovalService owns the ticket state machine and the reconciliation
// sweep over the legacy data gap.
type ApprovalService struct {
	db            postgres.Querier
	txm           postgres.TxManager
	bookings      repository.BookingRepository
	approvals     repository.ApprovalRepository
	audits        repository.AuditRepository
	notifications repository.NotificationRepository
	producer      Producer
	topics        []string
	logger        *slog.Logger
}

func NewApprovalService(
	db postgres.Querier,
	txm postgres.TxManager,
	bookings repository.BookingRepository,
	approvals repository.ApprovalRepository,
	audits repository.AuditRepository,
	notifications repository.NotificationRepository,
	producer Producer,
	topics []string,
) *ApprovalService {
	return &ApprovalService{
		db:            db,
		txm:           txm,
		bookings:      bookings,
		approvals:     approvals,
		audits:        audits,
		notifications: notifications,
		producer:      producer,
		topics:        topics,
		logger:        slog.Default().With("component", "approval.Service"),
	}
}

// Decide runs the administrator decision as one transaction: ticket to
// its terminal status, ledger row to CONFIRMED/REJECTED, one audit
// entry, one notification to the booking's owner. Any failure rolls
// back all four writes.
func (s *ApprovalService) Decide(ctx context.Context, kind domain.BookingKind, bookingID int64, decision domain.ApprovalStatus, adminID int64, notes string) (*DecisionResult, error) {
	result := &DecisionResult{}

	err := s.txm.RunInTx(ctx, postgres.TxOptions{Name: "decide_booking"}, func(ctx context.Context, q postgres.Querier) error {
		ticket, err := s.approvals.Decide(ctx, q, kind, bookingID, decision, adminID, notes)
		if err != nil {
			return err
		}
		result.Ticket = ticket

		if err := s.bookings.UpdateStatus(ctx, q, kind, bookingID, decision.BookingStatusFor()); err != nil {
			return err
		}

		var ownerID int64
		var reference string
		switch kind {
		case domain.BookingKindFlight:
			flight, err := s.bookings.FlightByID(ctx, q, bookingID)
			if err != nil {
				return err
			}
			result.Flight = flight
			ownerID, reference = flight.UserID, flight.Reference()
		default:
			hotel, err := s.bookings.HotelByID(ctx, q, bookingID)
			if err != nil {
				return err
			}
			result.Hotel = hotel
			ownerID, reference = hotel.UserID, hotel.Reference()
		}

		action := domain.AuditActionBookingApproved
		if decision == domain.ApprovalStatusRejected {
			action = domain.AuditActionBookingRejected
		}
		if err := s.audits.Record(ctx, q, &domain.AuditEntry{
			AdminID:    &adminID,
			Action:     action,
			EntityType: string(kind),
			EntityID:   bookingID,
			Details:    fmt.Sprintf("%s booking %s: %s", kind, reference, notes),
		}); err != nil {
			return err
		}

		return s.notifications.Insert(ctx, q, decisionNotification(ownerID, adminID, kind, reference, decision))
	})
	if err != nil {
		return nil, err
	}

	s.publishDecision(ctx, kind, bookingID, decision, result)
	return result, nil
}

func decisionNotification(ownerID, adminID int64, kind domain.BookingKind, reference string, decision domain.ApprovalStatus) *domain.Notification {
	owner, admin := ownerID, adminID
	if decision == domain.ApprovalStatusApproved {
		return &domain.Notification{
			UserID:  &owner,
			AdminID: &admin,
			Title:   "Booking confirmed",
			Message: fmt.Sprintf("Your %s booking %s has been confirmed.", kind, reference),
			Type:    domain.NotificationSuccess,
			Link:    "/bookings",
		}
	}
	return &domain.Notification{
		UserID:  &owner,
		AdminID: &admin,
		Title:   "Booking rejected",
		Message: fmt.Sprintf("Your %s booking %s has been rejected.", kind, reference),
		Type:    domain.NotificationError,
		Link:    "/bookings",
	}
}

// ReconcileMissingApprovals backfills approved tickets for confirmed
// bookings that predate the approval model. Safe to run repeatedly: it
// only inserts where no ticket exists and never touches existing
// tickets.
func (s *ApprovalService) ReconcileMissingApprovals(ctx context.Context) (int64, error) {
	var inserted int64
	err := s.txm.RunInTx(ctx, postgres.TxOptions{Name: "reconcile_missing_approvals"}, func(ctx context.Context, q postgres.Querier) error {
		n, err := s.approvals.InsertMissingForConfirmed(ctx, q)
		inserted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.logger.Info("backfilled approval tickets", "count", inserted)
	}
	return inserted, nil
}

// PendingBookings runs the reconciliation sweep first so the admin view
// is never corrupted by legacy rows without tickets.
func (s *ApprovalService) PendingBookings(ctx context.Context) (*PendingBookings, error) {
	if _, err := s.ReconcileMissingApprovals(ctx); err != nil {
		return nil, err
	}

	flights, err := s.approvals.PendingFlights(ctx, s.db)
	if err != nil {
		return nil, err
	}
	hotels, err := s.approvals.PendingHotels(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return &PendingBookings{Flights: flights, Hotels: hotels}, nil
}

func (s *ApprovalService) RecentAuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audits.ListRecent(ctx, s.db, limit)
}

func (s *ApprovalService) publishDecision(ctx context.Context, kind domain.BookingKind, bookingID int64, decision domain.ApprovalStatus, result *DecisionResult) {
	if s.producer == nil {
		return
	}

	eventType := kafka.EventBookingApproved
	if decision == domain.ApprovalStatusRejected {
		eventType = kafka.EventBookingRejected
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingKind: string(kind),
		BookingID:   bookingID,
		Decision:    string(decision),
		OccurredAt:  time.Now(),
	}
	switch {
	case result.Flight != nil:
		event.UserID = result.Flight.UserID
		event.Reference = result.Flight.Reference()
		event.Status = string(result.Flight.Status)
	case result.Hotel != nil:
		event.UserID = result.Hotel.UserID
		event.Reference = result.Hotel.Reference()
		event.Status = string(result.Hotel.Status)
	}

	for _, topic := range s.topics {
		if err := s.producer.Publish(ctx, topic, event.Key(), event); err != nil {
			s.logger.Warn("failed to publish decision event", "type", eventType, "topic", topic, "booking_id", bookingID, "error", err)
		}
	}
}

var _ ApprovalUseCase = (*ApprovalService)(nil)
