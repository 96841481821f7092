package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateFlightBooking(ctx context.Context, input booking.CreateFlightBookingInput) (*domain.FlightBooking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightBooking), args.Error(1)
}

func (m *MockBookingUseCase) CreateHotelBooking(ctx context.Context, input booking.CreateHotelBookingInput) (*domain.HotelBooking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HotelBooking), args.Error(1)
}

func (m *MockBookingUseCase) FlightBookingsByUser(ctx context.Context, userID int64) ([]domain.FlightBooking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.FlightBooking), args.Error(1)
}

func (m *MockBookingUseCase) HotelBookingsByUser(ctx context.Context, userID int64) ([]domain.HotelBooking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.HotelBooking), args.Error(1)
}

func (m *MockBookingUseCase) FlightBookingByID(ctx context.Context, id, userID int64) (*domain.FlightBooking, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightBooking), args.Error(1)
}

func (m *MockBookingUseCase) HotelBookingByID(ctx context.Context, id, userID int64) (*domain.HotelBooking, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HotelBooking), args.Error(1)
}

func testContext(t *testing.T, principal domain.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(principalKey, principal)
	return c, w
}

func TestBookingHandler_createFlight(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})

	body, _ := json.Marshal(map[string]any{
		"airline":        "DL",
		"flight_number":  "DL100",
		"origin":         "JFK",
		"destination":    "LAX",
		"departure_date": "2026-09-01T10:00:00Z",
		"passengers":     1,
		"price_cents":    25000,
		"currency":       "USD",
	})
	c.Request = httptest.NewRequest("POST", "/api/flight-bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.FlightBooking{
		ID:           42,
		UserID:       7,
		Airline:      "DL",
		FlightNumber: "DL100",
		Status:       domain.BookingStatusPending,
	}

	mockService.On("CreateFlightBooking", c.Request.Context(), mock.MatchedBy(func(input booking.CreateFlightBookingInput) bool {
		return input.UserID == 7 && input.FlightNumber == "DL100"
	})).Return(created, nil)

	handler.createFlight(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.FlightBooking
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), response.ID)
	assert.Equal(t, domain.BookingStatusPending, response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_createFlight_MissingFields(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})

	body, _ := json.Marshal(map[string]any{"airline": "DL"})
	c.Request = httptest.NewRequest("POST", "/api/flight-bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.createFlight(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateFlightBooking")
}

func TestBookingHandler_createFlight_PersistenceFailure(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})

	body, _ := json.Marshal(map[string]any{
		"airline":        "DL",
		"flight_number":  "DL100",
		"origin":         "JFK",
		"destination":    "LAX",
		"departure_date": "2026-09-01T10:00:00Z",
		"passengers":     1,
	})
	c.Request = httptest.NewRequest("POST", "/api/flight-bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateFlightBooking", c.Request.Context(), mock.Anything).
		Return(nil, apperr.Persistence("A database error occurred", nil))

	handler.createFlight(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "A database error occurred")
}

func TestBookingHandler_createHotel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 3, Role: domain.RoleUser})

	body, _ := json.Marshal(map[string]any{
		"hotel_name":  "Grand Plaza",
		"city":        "Rome",
		"check_in":    "2026-10-01T00:00:00Z",
		"check_out":   "2026-10-05T00:00:00Z",
		"guests":      2,
		"rooms":       1,
		"price_cents": 48000,
		"currency":    "EUR",
	})
	c.Request = httptest.NewRequest("POST", "/api/hotel-bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.HotelBooking{
		ID:        9,
		UserID:    3,
		HotelName: "Grand Plaza",
		CheckIn:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Status:    domain.BookingStatusPending,
	}

	mockService.On("CreateHotelBooking", c.Request.Context(), mock.MatchedBy(func(input booking.CreateHotelBookingInput) bool {
		return input.UserID == 3 && input.HotelName == "Grand Plaza"
	})).Return(created, nil)

	handler.createHotel(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_getFlight_NotOwned(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("GET", "/api/flight-bookings/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	mockService.On("FlightBookingByID", c.Request.Context(), int64(42), int64(7)).
		Return(nil, apperr.NotFound("flight booking not found"))

	handler.getFlight(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "flight booking not found")
}

func TestBookingHandler_listFlights(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(t, domain.Principal{ID: 7, Role: domain.RoleUser})
	c.Request = httptest.NewRequest("GET", "/api/flight-bookings", nil)

	bookings := []domain.FlightBooking{{ID: 1, UserID: 7, Airline: "DL"}}
	mockService.On("FlightBookingsByUser", c.Request.Context(), int64(7)).Return(bookings, nil)

	handler.listFlights(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.FlightBooking
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)

	mockService.AssertExpectations(t)
}
