// README: Booking aggregate and status definitions.
package booking

import (
	"time"

	"tempmotion/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Booking is a persisted, customer-confirmed request for service. Absent
// optional fields are nil, never empty strings, so the stored shape stays
// uniform. At most one booking is ever finalized per StripeSessionID; the
// bookings table enforces that with a unique constraint.
type Booking struct {
	ID              string
	Name            *string
	Email           *string
	Phone           *string
	Pickup          string
	Dropoff         string
	Stops           []string
	RideDate        string
	RideTime        string
	Passengers      int
	Price           types.Money
	PaymentMethod   *string
	Status          Status
	StripeSessionID *string
	CreatedAt       time.Time
}
