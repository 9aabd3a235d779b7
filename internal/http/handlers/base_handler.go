// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tempmotion/internal/modules/availability"
	"tempmotion/internal/modules/booking"
	"tempmotion/internal/modules/payment"
	"tempmotion/internal/modules/quote"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps module errors to HTTP statuses. Validation and
// signature failures are client errors; provider and persistence failures
// are gateway errors so upstream retry mechanisms kick in.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quote.ErrMissingAddress),
		errors.Is(err, booking.ErrMissingAddress),
		errors.Is(err, availability.ErrBadDate):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, quote.ErrRouteUnavailable):
		writeError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, payment.ErrInvalidSignature):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
