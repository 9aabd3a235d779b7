// README: Booking handler for direct (unpaid) booking confirmations.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tempmotion/internal/modules/booking"
	"tempmotion/internal/types"
)

// BookingService persists confirmed bookings.
type BookingService interface {
	Create(ctx context.Context, cmd booking.BuildCommand) (string, error)
}

type BookingHandler struct {
	bookings BookingService
	slots    SlotChecker
}

func NewBookingHandler(bookings BookingService, slots SlotChecker) *BookingHandler {
	return &BookingHandler{bookings: bookings, slots: slots}
}

type bookingReq struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Pickup     string   `json:"pickup"`
	Dropoff    string   `json:"dropoff"`
	Stops      []string `json:"stops"`
	RideDate   string   `json:"rideDate"`
	RideTime   string   `json:"rideTime"`
	Passengers int      `json:"passengers"`
	Price      float64  `json:"price"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	if req.RideDate != "" && req.RideTime != "" && h.slots != nil {
		ok, err := h.slots.SlotBookable(c.Request.Context(), req.RideDate, req.RideTime)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if !ok {
			writeError(c, http.StatusConflict, "selected time is not available")
			return
		}
	}

	id, err := h.bookings.Create(c.Request.Context(), booking.BuildCommand{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Pickup:     req.Pickup,
		Dropoff:    req.Dropoff,
		Stops:      req.Stops,
		RideDate:   req.RideDate,
		RideTime:   req.RideTime,
		Passengers: req.Passengers,
		Price:      types.FromDollars(req.Price, "usd"),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"success": true, "id": id})
}
