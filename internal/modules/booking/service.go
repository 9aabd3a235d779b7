// README: Booking record builder and persistence service.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tempmotion/internal/types"
)

var (
	ErrMissingAddress = errors.New("missing pickup or dropoff address")
	ErrNotFound       = errors.New("booking not found")
)

// BuildCommand is a raw booking submission before normalization.
type BuildCommand struct {
	Name            string
	Email           string
	Phone           string
	Pickup          string
	Dropoff         string
	Stops           []string
	RideDate        string
	RideTime        string
	Passengers      int
	Price           types.Money
	PaymentMethod   string
	StripeSessionID string
}

// Build validates and normalizes a raw submission into a canonical record.
// Pure: no I/O, no clock beyond CreatedAt stamping at insert time. Status is
// always pending here; finalization is the payment module's job.
func Build(cmd BuildCommand) (*Booking, error) {
	pickup := strings.TrimSpace(cmd.Pickup)
	dropoff := strings.TrimSpace(cmd.Dropoff)
	if pickup == "" || dropoff == "" {
		return nil, ErrMissingAddress
	}

	passengers := cmd.Passengers
	if passengers < 0 {
		passengers = 0
	}

	return &Booking{
		ID:              uuid.NewString(),
		Name:            optional(cmd.Name),
		Email:           optional(cmd.Email),
		Phone:           optional(cmd.Phone),
		Pickup:          pickup,
		Dropoff:         dropoff,
		Stops:           cleanStops(cmd.Stops),
		RideDate:        strings.TrimSpace(cmd.RideDate),
		RideTime:        strings.TrimSpace(cmd.RideTime),
		Passengers:      passengers,
		Price:           cmd.Price,
		PaymentMethod:   optional(cmd.PaymentMethod),
		Status:          StatusPending,
		StripeSessionID: optional(cmd.StripeSessionID),
	}, nil
}

// Inserter persists bookings. Implemented by Store; faked in tests.
type Inserter interface {
	Insert(ctx context.Context, b *Booking) error
	InsertIfSessionUnseen(ctx context.Context, b *Booking) (bool, error)
	FindByStripeSession(ctx context.Context, sessionID string) (*Booking, error)
}

type Service struct {
	store Inserter
}

func NewService(store Inserter) *Service {
	return &Service{store: store}
}

// Create builds and persists a pending booking from a direct confirmation
// (no payment attached).
func (s *Service) Create(ctx context.Context, cmd BuildCommand) (string, error) {
	b, err := Build(cmd)
	if err != nil {
		return "", err
	}
	b.CreatedAt = time.Now()
	if err := s.store.Insert(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

// FinalizePaid persists a paid booking keyed on its Stripe session exactly
// once. The false return means the session was already finalized (webhook
// redelivery) and nothing was written.
func (s *Service) FinalizePaid(ctx context.Context, b *Booking) (bool, error) {
	b.Status = StatusPaid
	b.CreatedAt = time.Now()
	return s.store.InsertIfSessionUnseen(ctx, b)
}

func optional(v string) *string {
	if t := strings.TrimSpace(v); t != "" {
		return &t
	}
	return nil
}

func cleanStops(stops []string) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
