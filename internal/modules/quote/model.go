// README: Quote model; a computed, non-binding price estimate for a route.
package quote

import (
	"math"
	"time"

	"tempmotion/internal/types"
)

// Request is a normalized quote request. Stops are visited in order between
// pickup and dropoff. DepartAt is the absolute departure instant in the
// service time zone; nil means "depart now".
type Request struct {
	Pickup   string
	Dropoff  string
	Stops    []string
	DepartAt *time.Time
}

// Quote is the priced result for one request. It is never persisted on its
// own; only the price flows into a booking.
type Quote struct {
	TravelSeconds   int64
	BillableSeconds int64
	Price           types.Money
	MinimumCharge   types.Money
	MinimumApplied  bool
}

// TravelMinutes returns the measured travel time in minutes, rounded to one
// decimal place for display.
func (q Quote) TravelMinutes() float64 {
	return math.Round(float64(q.TravelSeconds)/60*10) / 10
}
