package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createFlightBookingRequest struct {
	Airline       string          `json:"airline" binding:"required"`
	FlightNumber  string          `json:"flight_number" binding:"required"`
	Origin        string          `json:"origin" binding:"required"`
	Destination   string          `json:"destination" binding:"required"`
	DepartureDate time.Time       `json:"departure_date" binding:"required"`
	ReturnDate    *time.Time      `json:"return_date"`
	Passengers    int             `json:"passengers" binding:"required"`
	PriceCents    int64           `json:"price_cents"`
	Currency      string          `json:"currency"`
	Details       json.RawMessage `json:"details"`
}

type createHotelBookingRequest struct {
	HotelName  string          `json:"hotel_name" binding:"required"`
	City       string          `json:"city" binding:"required"`
	CheckIn    time.Time       `json:"check_in" binding:"required"`
	CheckOut   time.Time       `json:"check_out" binding:"required"`
	Guests     int             `json:"guests" binding:"required"`
	Rooms      int             `json:"rooms"`
	PriceCents int64           `json:"price_cents"`
	Currency   string          `json:"currency"`
	Details    json.RawMessage `json:"details"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/flight-bookings", h.createFlight)
	router.GET("/flight-bookings", h.listFlights)
	router.GET("/flight-bookings/:id", h.getFlight)
	router.POST("/hotel-bookings", h.createHotel)
	router.GET("/hotel-bookings", h.listHotels)
	router.GET("/hotel-bookings/:id", h.getHotel)
}

func (h *BookingHandler) createFlight(c *gin.Context) {
	var req createFlightBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateFlightBooking(c.Request.Context(), booking.CreateFlightBookingInput{
		UserID:        CurrentPrincipal(c).ID,
		Airline:       req.Airline,
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Passengers:    req.Passengers,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
		Details:       req.Details,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) createHotel(c *gin.Context) {
	var req createHotelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateHotelBooking(c.Request.Context(), booking.CreateHotelBookingInput{
		UserID:     CurrentPrincipal(c).ID,
		HotelName:  req.HotelName,
		City:       req.City,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Guests:     req.Guests,
		Rooms:      req.Rooms,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		Details:    req.Details,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) listFlights(c *gin.Context) {
	bookings, err := h.service.FlightBookingsByUser(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) listHotels(c *gin.Context) {
	bookings, err := h.service.HotelBookingsByUser(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) getFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.service.FlightBookingByID(c.Request.Context(), id, CurrentPrincipal(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) getHotel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.service.HotelBookingByID(c.Request.Context(), id, CurrentPrincipal(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
