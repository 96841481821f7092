package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/postgres"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type BookingUseCase interface {
	CreateFlightBooking(ctx context.Context, input CreateFlightBookingInput) (*domain.FlightBooking, error)
	CreateHotelBooking(ctx context.Context, input CreateHotelBookingInput) (*domain.HotelBooking, error)
	FlightBookingsByUser(ctx context.Context, userID int64) ([]domain.FlightBooking, error)
	HotelBookingsByUser(ctx context.Context, userID int64) ([]domain.HotelBooking, error)
	FlightBookingByID(ctx context.Context, id, userID int64) (*domain.FlightBooking, error)
	HotelBookingByID(ctx context.Context, id, userID int64) (*domain.HotelBooking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService owns the submission path: one transaction writes the
// ledger row, the pending approval ticket, the audit entry, and the
// owner's notification. Status changes afterwards belong to the
// approval service.
type BookingService struct {
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

type CreateFlightBookingInput struct {
	UserID        int64
	Airline       string          `json:"airline"`
	FlightNumber  string          `json:"flight_number"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureDate time.Time       `json:"departure_date"`
	ReturnDate    *time.Time      `json:"return_date"`
	Passengers    int             `json:"passengers"`
	PriceCents    int64           `json:"price_cents"`
	Currency      string          `json:"currency"`
	Details       json.RawMessage `json:"details"`
}

type CreateHotelBookingInput struct {
	UserID     int64
	HotelName  string          `json:"hotel_name"`
	City       string          `json:"city"`
	CheckIn    time.Time       `json:"check_in"`
	CheckOut   time.Time       `json:"check_out"`
	Guests     int             `json:"guests"`
	Rooms      int             `json:"rooms"`
	PriceCents int64           `json:"price_cents"`
	Currency   string          `json:"currency"`
	Details    json.RawMessage `json:"details"`
}

func NewBookingService(
	db postgres.Querier,
	txm postgres.TxManager,
	bookings repository.BookingRepository,
	approvals repository.ApprovalRepository,
	audits repository.AuditRepository,
	notifications repository.NotificationRepository,
	producer Producer,
	topics []string,
) *BookingService {
	return &BookingService{
		db:            db,
		txm:           txm,
		bookings:      bookings,
		approvals:     approvals,
		audits:        audits,
		notifications: notifications,
		producer:      producer,
		topics:        topics,
		logger:        slog.Default().With("component", "booking.Service"),
	}
}

func (s *BookingService) CreateFlightBooking(ctx context.Context, input CreateFlightBookingInput) (*domain.FlightBooking, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	booking := &domain.FlightBooking{
		UserID:        input.UserID,
		Airline:       input.Airline,
		FlightNumber:  input.FlightNumber,
		Origin:        input.Origin,
		Destination:   input.Destination,
		DepartureDate: input.DepartureDate,
		ReturnDate:    input.ReturnDate,
		Passengers:    input.Passengers,
		PriceCents:    input.PriceCents,
		Currency:      input.Currency,
		Details:       input.Details,
	}

	err := s.txm.RunInTx(ctx, postgres.TxOptions{Name: "create_flight_booking"}, func(ctx context.Context, q postgres.Querier) error {
		if err := s.bookings.InsertFlight(ctx, q, booking); err != nil {
			return err
		}
		return s.recordSubmission(ctx, q, domain.BookingKindFlight, booking.ID, booking.UserID, booking.Reference())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, domain.BookingKindFlight, booking.ID, booking.UserID, booking.Reference(), booking.Status)
	return booking, nil
}

func (s *BookingService) CreateHotelBooking(ctx context.Context, input CreateHotelBookingInput) (*domain.HotelBooking, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	booking := &domain.HotelBooking{
		UserID:     input.UserID,
		HotelName:  input.HotelName,
		City:       input.City,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Guests:     input.Guests,
		Rooms:      input.Rooms,
		PriceCents: input.PriceCents,
		Currency:   input.Currency,
		Details:    input.Details,
	}

	err := s.txm.RunInTx(ctx, postgres.TxOptions{Name: "create_hotel_booking"}, func(ctx context.Context, q postgres.Querier) error {
		if err := s.bookings.InsertHotel(ctx, q, booking); err != nil {
			return err
		}
		return s.recordSubmission(ctx, q, domain.BookingKindHotel, booking.ID, booking.UserID, booking.Reference())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, domain.BookingKindHotel, booking.ID, booking.UserID, booking.Reference(), booking.Status)
	return booking, nil
}

// recordSubmission writes the ticket, audit entry, and notification
// that accompany every new ledger row. Runs inside the caller's
// transaction.
func (s *BookingService) recordSubmission(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID, userID int64, reference string) error {
	if _, err := s.approvals.Open(ctx, q, kind, bookingID, "Awaiting review"); err != nil {
		return err
	}

	if err := s.audits.Record(ctx, q, &domain.AuditEntry{
		Action:     domain.AuditActionBookingSubmitted,
		EntityType: string(kind),
		EntityID:   bookingID,
		Details:    fmt.Sprintf("User %d submitted %s booking %s", userID, kind, reference),
	}); err != nil {
		return err
	}

	owner := userID
	return s.notifications.Insert(ctx, q, &domain.Notification{
		UserID:  &owner,
		Title:   "Booking received",
		Message: fmt.Sprintf("Your %s booking %s is awaiting review.", kind, reference),
		Type:    domain.NotificationInfo,
		Link:    "/bookings",
	})
}

func (s *BookingService) FlightBookingsByUser(ctx context.Context, userID int64) ([]domain.FlightBooking, error) {
	return s.bookings.FlightsByUser(ctx, s.db, userID)
}

func (s *BookingService) HotelBookingsByUser(ctx context.Context, userID int64) ([]domain.HotelBooking, error) {
	return s.bookings.HotelsByUser(ctx, s.db, userID)
}

// FlightBookingByID returns the booking only to its owner. Someone
// else's booking reads as not found so existence is not leaked.
func (s *BookingService) FlightBookingByID(ctx context.Context, id, userID int64) (*domain.FlightBooking, error) {
	b, err := s.bookings.FlightByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperr.NotFound("flight booking not found")
	}
	return b, nil
}

func (s *BookingService) HotelBookingByID(ctx context.Context, id, userID int64) (*domain.HotelBooking, error) {
	b, err := s.bookings.HotelByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperr.NotFound("hotel booking not found")
	}
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, kind domain.BookingKind, bookingID, userID int64, reference string, status domain.BookingStatus) {
	if s.producer == nil {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingKind: string(kind),
		BookingID:   bookingID,
		UserID:      userID,
		Reference:   reference,
		Status:      string(status),
		OccurredAt:  time.Now(),
	}
	for _, topic := range s.topics {
		if err := s.producer.Publish(ctx, topic, event.Key(), event); err != nil {
			s.logger.Warn("failed to publish booking event", "type", eventType, "topic", topic, "booking_id", bookingID, "error", err)
		}
	}
}

func (i CreateFlightBookingInput) validate() error {
	switch {
	case i.Airline == "":
		return apperr.Validation("airline is required")
	case i.FlightNumber == "":
		return apperr.Validation("flight number is required")
	case i.Origin == "" || i.Destination == "":
		return apperr.Validation("origin and destination are required")
	case i.DepartureDate.IsZero():
		return apperr.Validation("departure date is required")
	case i.Passengers <= 0:
		return apperr.Validation("passengers must be positive")
	case i.PriceCents < 0:
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func (i CreateHotelBookingInput) validate() error {
	switch {
	case i.HotelName == "":
		return apperr.Validation("hotel name is required")
	case i.City == "":
		return apperr.Validation("city is required")
	case i.CheckIn.IsZero() || i.CheckOut.IsZero():
		return apperr.Validation("check-in and check-out dates are required")
	case !i.CheckOut.After(i.CheckIn):
		return apperr.Validation("check-out must be after check-in")
	case i.Guests <= 0:
		return apperr.Validation("guests must be positive")
	case i.PriceCents < 0:
		return apperr.Validation("price must not be negative")
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
