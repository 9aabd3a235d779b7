// README: Payment handlers; checkout creation and the Stripe webhook.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tempmotion/internal/modules/payment"
	"tempmotion/internal/modules/quote"
)

// PaymentService opens checkout sessions and applies webhook events.
type PaymentService interface {
	CreateCheckout(ctx context.Context, cmd payment.CheckoutCommand) (payment.CheckoutSession, error)
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) (payment.Outcome, error)
}

type PaymentHandler struct {
	payments PaymentService
	slots    SlotChecker
	loc      *time.Location
	log      *logrus.Logger
}

func NewPaymentHandler(payments PaymentService, slots SlotChecker, loc *time.Location, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, slots: slots, loc: loc, log: log}
}

type checkoutReq struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Pickup     string   `json:"pickup"`
	Dropoff    string   `json:"dropoff"`
	Stops      []string `json:"stops"`
	RideDate   string   `json:"rideDate"`
	RideTime   string   `json:"rideTime"`
	Passengers int      `json:"passengers"`
}

// CreateCheckout prices the ride server-side and returns the redirect URL.
// The request carries no amount; whatever the client believed the price to
// be is irrelevant to what gets charged.
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req checkoutReq
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

	sess, err := h.payments.CreateCheckout(c.Request.Context(), payment.CheckoutCommand{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		RideDate:   req.RideDate,
		RideTime:   req.RideTime,
		Passengers: req.Passengers,
		Request: quote.Request{
			Pickup:   req.Pickup,
			Dropoff:  req.Dropoff,
			Stops:    req.Stops,
			DepartAt: departAt(h.loc, req.RideDate, req.RideTime),
		},
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"url": sess.URL})
}

// Webhook applies one inbound payment event. Bad signatures are client
// errors; anything else that fails must be a 5xx so Stripe redelivers.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable payload")
		return
	}
	sig := c.GetHeader("Stripe-Signature")

	outcome, err := h.payments.HandleEvent(c.Request.Context(), payload, sig)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.log.WithError(err).Warn("rejected webhook with bad signature")
			writeError(c, http.StatusBadRequest, "invalid signature")
			return
		}
		h.log.WithError(err).Error("webhook processing failed")
		writeError(c, http.StatusBadGateway, "event not processed")
		return
	}

	writeJSON(c, http.StatusOK, gin.H{"received": true, "outcome": outcome.String()})
}
