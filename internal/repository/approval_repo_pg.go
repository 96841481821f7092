package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AutoCreatedNote marks tickets synthesized by the reconciliation sweep
// for bookings confirmed before the approval workflow existed.
const AutoCreatedNote = "Auto-created for booking confirmed before approval workflow"

// PendingFlightBooking is a flight booking annotated with its approval
// ticket, as shown in the admin pending view.
type PendingFlightBooking struct {
	domain.FlightBooking
	ApprovalStatus  domain.ApprovalStatus `json:"approvalStatus"`
	ApprovalNotes   string                `json:"approvalNotes"`
	ApprovalUpdated time.Time             `json:"approvalUpdated"`
}

type PendingHotelBooking struct {
	domain.HotelBooking
	ApprovalStatus  domain.ApprovalStatus `json:"approvalStatus"`
	ApprovalNotes   string                `json:"approvalNotes"`
	ApprovalUpdated time.Time             `json:"approvalUpdated"`
}

type ApprovalRepository interface {
	Open(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID int64, note string) (*domain.ApprovalTicket, error)
	Get(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID int64) (*domain.ApprovalTicket, error)
	Decide(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID int64, decision domain.ApprovalStatus, adminID int64, notes string) (*domain.ApprovalTicket, error)
	InsertMissingForConfirmed(ctx context.Context, q postgres.Querier) (int64, error)
	PendingFlights(ctx context.Context, q postgres.Querier) ([]PendingFlightBooking, error)
	PendingHotels(ctx context.Context, q postgres.Querier) ([]PendingHotelBooking, error)
}

type PGApprovalRepository struct{}

func NewApprovalRepository() ApprovalRepository {
	return &PGApprovalRepository{}
}

const approvalColumns = `id, booking_type, booking_id, status, admin_id, admin_notes, created_at, updated_at`

func (r *PGApprovalRepository) Open(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID int64, note string) (*domain.ApprovalTicket, error) {
	t := &domain.ApprovalTicket{
		BookingKind: kind,
		BookingID:   bookingID,
		Status:      domain.ApprovalStatusPending,
		AdminNotes:  note,
	}
	err := q.QueryRow(ctx, `INSERT INTO booking_approvals (booking_type, booking_id, status, admin_notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`, kind, bookingID, t.Status, note).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		// The unique key on (booking_type, booking_id) guards retried
		// requests.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("approval ticket already exists for %s booking %d", kind, bookingID)
		}
		return nil, err
	}
	return t, nil
}

func (r *PGApprovalRepository) Get(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID int64) (*domain.ApprovalTicket, error) {
	row := q.QueryRow(ctx, `SELECT `+approvalColumns+` FROM booking_approvals WHERE booking_type=$1 AND booking_id=$2`, kind, bookingID)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("no approval ticket for %s booking %d", kind, bookingID)
		}
		return nil, err
	}
	return t, nil
}

// Decide flips a pending ticket to its terminal status. The status
// guard in the WHERE clause makes concurrent decisions on the same
// ticket resolve to exactly one winner: the loser updates zero rows.
func (r *PGApprovalRepository) Decide(ctx context.Context, q postgres.Querier, kind domain.BookingKind, bookingID int64, decision domain.ApprovalStatus, adminID int64, notes string) (*domain.ApprovalTicket, error) {
	row := q.QueryRow(ctx, `UPDATE booking_approvals SET status=$1, admin_id=$2, admin_notes=$3, updated_at=now()
		WHERE booking_type=$4 AND booking_id=$5 AND status=$6
		RETURNING `+approvalColumns, decision, adminID, notes, kind, bookingID, domain.ApprovalStatusPending)
	t, err := scanTicket(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Zero rows: either the ticket does not exist, or it already
	// reached a terminal state.
	if _, getErr := r.Get(ctx, q, kind, bookingID); getErr != nil {
		return nil, getErr
	}
	return nil, apperr.Conflict("approval ticket for %s booking %d is already decided", kind, bookingID)
}

func (r *PGApprovalRepository) InsertMissingForConfirmed(ctx context.Context, q postgres.Querier) (int64, error) {
	var inserted int64
	for _, src := range []struct {
		kind  domain.BookingKind
		table string
	}{
		{domain.BookingKindFlight, "flight_bookings"},
		{domain.BookingKindHotel, "hotel_bookings"},
	} {
		cmd, err := q.Exec(ctx, `INSERT INTO booking_approvals (booking_type, booking_id, status, admin_notes)
			SELECT $1, b.id, $2, $3 FROM `+src.table+` b
			WHERE UPPER(b.status) = $4
			AND NOT EXISTS (
				SELECT 1 FROM booking_approvals ba
				WHERE ba.booking_type = $1 AND ba.booking_id = b.id
			)`, src.kind, domain.ApprovalStatusApproved, AutoCreatedNote, domain.BookingStatusConfirmed)
		if err != nil {
			return inserted, err
		}
		inserted += cmd.RowsAffected()
	}
	return inserted, nil
}

func (r *PGApprovalRepository) PendingFlights(ctx context.Context, q postgres.Querier) ([]PendingFlightBooking, error) {
	rows, err := q.Query(ctx, `SELECT `+prefixed("b", flightColumns)+`, ba.status, ba.admin_notes, ba.updated_at
		FROM flight_bookings b
		JOIN booking_approvals ba ON ba.booking_type=$1 AND ba.booking_id=b.id
		WHERE ba.status=$2
		ORDER BY b.created_at`, domain.BookingKindFlight, domain.ApprovalStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]PendingFlightBooking, 0)
	for rows.Next() {
		var p PendingFlightBooking
		var status string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Airline, &p.FlightNumber, &p.Origin, &p.Destination, &p.DepartureDate, &p.ReturnDate, &p.Passengers, &p.PriceCents, &p.Currency, &p.Details, &status, &p.CreatedAt, &p.UpdatedAt,
			&p.ApprovalStatus, &p.ApprovalNotes, &p.ApprovalUpdated); err != nil {
			return nil, err
		}
		p.Status = domain.NormalizeBookingStatus(status)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *PGApprovalRepository) PendingHotels(ctx context.Context, q postgres.Querier) ([]PendingHotelBooking, error) {
	rows, err := q.Query(ctx, `SELECT `+prefixed("b", hotelColumns)+`, ba.status, ba.admin_notes, ba.updated_at
		FROM hotel_bookings b
		JOIN booking_approvals ba ON ba.booking_type=$1 AND ba.booking_id=b.id
		WHERE ba.status=$2
		ORDER BY b.created_at`, domain.BookingKindHotel, domain.ApprovalStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]PendingHotelBooking, 0)
	for rows.Next() {
		var p PendingHotelBooking
		var status string
		if err := rows.Scan(&p.ID, &p.UserID, &p.HotelName, &p.City, &p.CheckIn, &p.CheckOut, &p.Guests, &p.Rooms, &p.PriceCents, &p.Currency, &p.Details, &status, &p.CreatedAt, &p.UpdatedAt,
			&p.ApprovalStatus, &p.ApprovalNotes, &p.ApprovalUpdated); err != nil {
			return nil, err
		}
		p.Status = domain.NormalizeBookingStatus(status)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func prefixed(alias, columns string) string {
	return alias + "." + strings.ReplaceAll(columns, ", ", ", "+alias+".")
}

func scanTicket(row pgx.Row) (*domain.ApprovalTicket, error) {
	var t domain.ApprovalTicket
	if err := row.Scan(&t.ID, &t.BookingKind, &t.BookingID, &t.Status, &t.AdminID, &t.AdminNotes, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

var _ ApprovalRepository = (*PGApprovalRepository)(nil)
