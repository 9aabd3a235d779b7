// README: Blocked-slot lookup for the booking form's date picker.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BlockedLister returns the operator-blocked times for a date.
type BlockedLister interface {
	BlockedTimes(ctx context.Context, date string) ([]string, error)
}

type AvailabilityHandler struct {
	slots BlockedLister
}

func NewAvailabilityHandler(slots BlockedLister) *AvailabilityHandler {
	return &AvailabilityHandler{slots: slots}
}

func (h *AvailabilityHandler) Blocked(c *gin.Context) {
	date := c.Query("rideDate")
	if date == "" {
		date = c.Query("date")
	}
	if date == "" {
		writeJSON(c, http.StatusOK, gin.H{"blocked": []string{}})
		return
	}

	times, err := h.slots.BlockedTimes(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if times == nil {
		times = []string{}
	}
	writeJSON(c, http.StatusOK, gin.H{"blocked": times})
}
