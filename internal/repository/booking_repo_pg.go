package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// BookingRepository is the persistence half of the booking ledger.
// Every method takes a Querier so writes can run on the pool or inside
// a managed transaction; status changes are only ever issued by the
// approval workflow's transaction.
type BookingRepository interface {
	InsertFlight(ctx context.Context, q postgres.Querier, b *domain.FlightBooking) error
	InsertHotel(ctx context.Context, q postgres.Querier, b *domain.HotelBooking) error
	UpdateStatus(ctx context.Context, q postgres.Querier, kind domain.BookingKind, id int64, status domain.BookingStatus) error
	FlightByID(ctx context.Context, q postgres.Querier, id int64) (*domain.FlightBooking, error)
	HotelByID(ctx context.Context, q postgres.Querier, id int64) (*domain.HotelBooking, error)
	FlightsByUser(ctx context.Context, q postgres.Querier, userID int64) ([]domain.FlightBooking, error)
	HotelsByUser(ctx context.Context, q postgres.Querier, userID int64) ([]domain.HotelBooking, error)
}

type PGBookingRepository struct{}

func NewBookingRepository() BookingRepository {
	return &PGBookingRepository{}
}

const flightColumns = `id, user_id, airline, flight_number, origin, destination, departure_date, return_date, passengers, price_cents, currency, details, status, created_at, updated_at`

const hotelColumns = `id, user_id, hotel_name, city, check_in, check_out, guests, rooms, price_cents, currency, details, status, created_at, updated_at`

func (r *PGBookingRepository) InsertFlight(ctx context.Context, q postgres.Querier, b *domain.FlightBooking) error {
	b.Status = domain.BookingStatusPending
	return q.QueryRow(ctx, `INSERT INTO flight_bookings (user_id, airline, flight_number, origin, destination, departure_date, return_date, passengers, price_cents, currency, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		b.UserID, b.Airline, b.FlightNumber, b.Origin, b.Destination, b.DepartureDate, b.ReturnDate, b.Passengers, b.PriceCents, b.Currency, b.Details, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) InsertHotel(ctx context.Context, q postgres.Querier, b *domain.HotelBooking) error {
	b.Status = domain.BookingStatusPending
	return q.QueryRow(ctx, `INSERT INTO hotel_bookings (user_id, hotel_name, city, check_in, check_out, guests, rooms, price_cents, currency, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		b.UserID, b.HotelName, b.City, b.CheckIn, b.CheckOut, b.Guests, b.Rooms, b.PriceCents, b.Currency, b.Details, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, q postgres.Querier, kind domain.BookingKind, id int64, status domain.BookingStatus) error {
	table := "flight_bookings"
	if kind == domain.BookingKindHotel {
		table = "hotel_bookings"
	}
	cmd, err := q.Exec(ctx, `UPDATE `+table+` SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("booking not found")
	}
	return nil
}

func (r *PGBookingRepository) FlightByID(ctx context.Context, q postgres.Querier, id int64) (*domain.FlightBooking, error) {
	row := q.QueryRow(ctx, `SELECT `+flightColumns+` FROM flight_bookings WHERE id=$1`, id)
	return scanFlight(row)
}

func (r *PGBookingRepository) HotelByID(ctx context.Context, q postgres.Querier, id int64) (*domain.HotelBooking, error) {
	row := q.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotel_bookings WHERE id=$1`, id)
	return scanHotel(row)
}

func (r *PGBookingRepository) FlightsByUser(ctx context.Context, q postgres.Querier, userID int64) ([]domain.FlightBooking, error) {
	rows, err := q.Query(ctx, `SELECT `+flightColumns+` FROM flight_bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.FlightBooking, 0)
	for rows.Next() {
		b, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) HotelsByUser(ctx context.Context, q postgres.Querier, userID int64) ([]domain.HotelBooking, error) {
	rows, err := q.Query(ctx, `SELECT `+hotelColumns+` FROM hotel_bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.HotelBooking, 0)
	for rows.Next() {
		b, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanFlight(row pgx.Row) (*domain.FlightBooking, error) {
	var b domain.FlightBooking
	var status string
	if err := row.Scan(&b.ID, &b.UserID, &b.Airline, &b.FlightNumber, &b.Origin, &b.Destination, &b.DepartureDate, &b.ReturnDate, &b.Passengers, &b.PriceCents, &b.Currency, &b.Details, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("flight booking not found")
		}
		return nil, err
	}
	b.Status = domain.NormalizeBookingStatus(status)
	return &b, nil
}

func scanHotel(row pgx.Row) (*domain.HotelBooking, error) {
	var b domain.HotelBooking
	var status string
	if err := row.Scan(&b.ID, &b.UserID, &b.HotelName, &b.City, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Rooms, &b.PriceCents, &b.Currency, &b.Details, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("hotel booking not found")
		}
		return nil, err
	}
	// Legacy hotel rows predate the canonical upper-case statuses.
	b.Status = domain.NormalizeBookingStatus(status)
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
