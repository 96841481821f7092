package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type BookingKind string

const (
	BookingKindFlight BookingKind = "flight"
	BookingKindHotel  BookingKind = "hotel"
)

func ParseBookingKind(s string) (BookingKind, error) {
	switch BookingKind(strings.ToLower(s)) {
	case BookingKindFlight:
		return BookingKindFlight, nil
	case BookingKindHotel:
		return BookingKindHotel, nil
	}
	return "", fmt.Errorf("unknown booking type %q", s)
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// NormalizeBookingStatus maps a stored status string to the canonical
// upper-case enumeration. Hotel rows written before the approval model
// carry lower-case statuses.
func NormalizeBookingStatus(s string) BookingStatus {
	return BookingStatus(strings.ToUpper(s))
}

type FlightBooking struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Airline       string          `json:"airline"`
	FlightNumber  string          `json:"flight_number"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureDate time.Time       `json:"departure_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	Passengers    int             `json:"passengers"`
	PriceCents    int64           `json:"price_cents"`
	Currency      string          `json:"currency"`
	Details       json.RawMessage `json:"details,omitempty"`
	Status        BookingStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type HotelBooking struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	HotelName  string          `json:"hotel_name"`
	City       string          `json:"city"`
	CheckIn    time.Time       `json:"check_in"`
	CheckOut   time.Time       `json:"check_out"`
	Guests     int             `json:"guests"`
	Rooms      int             `json:"rooms"`
	PriceCents int64           `json:"price_cents"`
	Currency   string          `json:"currency"`
	Details    json.RawMessage `json:"details,omitempty"`
	Status     BookingStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Reference is the short human-readable identity used in notification
// messages, e.g. "DL DL100".
func (f *FlightBooking) Reference() string {
	return fmt.Sprintf("%s %s", f.Airline, f.FlightNumber)
}

func (h *HotelBooking) Reference() string {
	return fmt.Sprintf("%s (%s - %s)", h.HotelName, h.CheckIn.Format("2006-01-02"), h.CheckOut.Format("2006-01-02"))
}
