// README: Quote handler; prices a ride request.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tempmotion/internal/modules/availability"
	"tempmotion/internal/modules/quote"
)

// QuoteService prices a ride request.
type QuoteService interface {
	Quote(ctx context.Context, req quote.Request) (*quote.Quote, error)
}

// SlotChecker reports whether a (date, time) slot can still be booked.
type SlotChecker interface {
	SlotBookable(ctx context.Context, date, timeOfDay string) (bool, error)
}

type QuoteHandler struct {
	quotes QuoteService
	slots  SlotChecker
	loc    *time.Location
}

func NewQuoteHandler(quotes QuoteService, slots SlotChecker, loc *time.Location) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, slots: slots, loc: loc}
}

type quoteReq struct {
	Pickup     string   `json:"pickup"`
	Dropoff    string   `json:"dropoff"`
	Stops      []string `json:"stops"`
	RideDate   string   `json:"rideDate"`
	RideTime   string   `json:"rideTime"`
	Passengers int      `json:"passengers"`
}

type quoteResp struct {
	RouteSeconds    int64   `json:"routeSeconds"`
	BillableSeconds int64   `json:"billableSeconds"`
	RouteMinutes    float64 `json:"routeMinutes"`
	Price           float64 `json:"price"`
	MinimumCharge   float64 `json:"minimumCharge"`
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
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

	q, err := h.quotes.Quote(c.Request.Context(), quote.Request{
		Pickup:   req.Pickup,
		Dropoff:  req.Dropoff,
		Stops:    req.Stops,
		DepartAt: departAt(h.loc, req.RideDate, req.RideTime),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, quoteResp{
		RouteSeconds:    q.TravelSeconds,
		BillableSeconds: q.BillableSeconds,
		RouteMinutes:    q.TravelMinutes(),
		Price:           q.Price.Dollars(),
		MinimumCharge:   q.MinimumCharge.Dollars(),
	})
}

// departAt converts the submitted (date, time) pair to an absolute instant
// in the service time zone. Nil when either part is absent or malformed;
// the quote then reflects traffic at quote time.
func departAt(loc *time.Location, date, timeOfDay string) *time.Time {
	if date == "" || timeOfDay == "" {
		return nil
	}
	t, err := time.ParseInLocation(availability.DateLayout+" "+availability.TimeLayout, date+" "+timeOfDay, loc)
	if err != nil {
		return nil
	}
	return &t
}
