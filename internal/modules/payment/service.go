// README: Payment service; server-priced checkout creation and idempotent
// webhook finalization.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"tempmotion/internal/modules/booking"
	"tempmotion/internal/modules/quote"
	"tempmotion/internal/types"
)

// Quoter prices a ride request. Implemented by quote.Service.
type Quoter interface {
	Quote(ctx context.Context, req quote.Request) (*quote.Quote, error)
}

// CheckoutCreator creates a checkout session with the payment provider.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, amount types.Money, metadata map[string]string) (CheckoutSession, error)
}

// EventVerifier verifies a raw webhook payload and its signature header.
type EventVerifier interface {
	VerifyEvent(payload []byte, sigHeader string) (Event, error)
}

// Finalizer persists a paid booking exactly once per session.
type Finalizer interface {
	FinalizePaid(ctx context.Context, b *booking.Booking) (bool, error)
}

// Notifier announces a finalized booking. Failures are the notifier's
// problem; the payment flow never waits on or fails for it.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *booking.Booking)
}

type Service struct {
	quotes   Quoter
	sessions CheckoutCreator
	verifier EventVerifier
	bookings Finalizer
	notify   Notifier
	log      *logrus.Logger
}

func NewService(quotes Quoter, sessions CheckoutCreator, verifier EventVerifier, bookings Finalizer, notify Notifier, log *logrus.Logger) *Service {
	return &Service{
		quotes:   quotes,
		sessions: sessions,
		verifier: verifier,
		bookings: bookings,
		notify:   notify,
		log:      log,
	}
}

// CheckoutCommand carries the booking details for a payment-backed booking.
// No client-supplied amount: the price is recomputed server-side.
type CheckoutCommand struct {
	Name       string
	Email      string
	Phone      string
	RideDate   string
	RideTime   string
	Passengers int
	Request    quote.Request
}

// CreateCheckout prices the ride and opens a checkout session for exactly
// that amount, with the booking details attached as session metadata so the
// completion webhook can reconstruct the record.
func (s *Service) CreateCheckout(ctx context.Context, cmd CheckoutCommand) (CheckoutSession, error) {
	q, err := s.quotes.Quote(ctx, cmd.Request)
	if err != nil {
		return CheckoutSession{}, err
	}

	stops, _ := json.Marshal(quote.CleanStops(cmd.Request.Stops))
	metadata := map[string]string{
		"name":       cmd.Name,
		"email":      cmd.Email,
		"phone":      cmd.Phone,
		"pickup":     cmd.Request.Pickup,
		"dropoff":    cmd.Request.Dropoff,
		"stops":      string(stops),
		"rideDate":   cmd.RideDate,
		"rideTime":   cmd.RideTime,
		"passengers": strconv.Itoa(cmd.Passengers),
	}

	return s.sessions.CreateCheckoutSession(ctx, q.Price, metadata)
}

// HandleEvent verifies and applies one inbound webhook delivery.
//
// Only checkout completions finalize a booking; the booking's price comes
// from the event's settled amount, never from metadata (metadata is
// client-influenced). The insert is conditional on the session being unseen,
// so at-least-once redelivery converges on exactly one paid booking, and
// both deliveries acknowledge successfully.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (Outcome, error) {
	ev, err := s.verifier.VerifyEvent(payload, sigHeader)
	if err != nil {
		return OutcomeIgnored, err
	}

	if ev.Type != EventTypeCheckoutCompleted {
		s.log.WithField("type", ev.Type).Debug("ignoring payment event")
		return OutcomeIgnored, nil
	}

	b, err := bookingFromEvent(ev)
	if err != nil {
		return OutcomeIgnored, err
	}

	inserted, err := s.bookings.FinalizePaid(ctx, b)
	if err != nil {
		// Surfaced as a server error so the provider redelivers.
		return OutcomeIgnored, fmt.Errorf("finalize booking: %w", err)
	}
	if !inserted {
		s.log.WithField("session_id", ev.SessionID).Info("duplicate payment event, already finalized")
		return OutcomeAlreadyProcessed, nil
	}

	s.log.WithFields(logrus.Fields{
		"session_id": ev.SessionID,
		"amount":     b.Price.String(),
	}).Info("booking finalized from payment event")

	if s.notify != nil {
		s.notify.BookingConfirmed(ctx, b)
	}
	return OutcomeFinalized, nil
}

func bookingFromEvent(ev Event) (*booking.Booking, error) {
	md := ev.Metadata

	var stops []string
	if raw := md["stops"]; raw != "" {
		// Metadata is best-effort; a malformed stops list only loses stops.
		_ = json.Unmarshal([]byte(raw), &stops)
	}
	passengers, _ := strconv.Atoi(md["passengers"])

	b, err := booking.Build(booking.BuildCommand{
		Name:            md["name"],
		Email:           md["email"],
		Phone:           md["phone"],
		Pickup:          md["pickup"],
		Dropoff:         md["dropoff"],
		Stops:           stops,
		RideDate:        md["rideDate"],
		RideTime:        md["rideTime"],
		Passengers:      passengers,
		Price:           ev.AmountTotal,
		PaymentMethod:   "card",
		StripeSessionID: ev.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("event metadata incomplete: %w", err)
	}
	return b, nil
}
