// README: Quote service turns a ride request into a deterministic price via
// the directions provider and the fare policy.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tempmotion/internal/config"
	"tempmotion/internal/types"
)

var (
	// ErrMissingAddress is returned when pickup or dropoff is empty after
	// trimming. User-correctable, never retried.
	ErrMissingAddress = errors.New("missing pickup or dropoff address")
	// ErrRouteUnavailable is returned when the directions provider fails or
	// times out. Safe for the client to retry by resubmitting.
	ErrRouteUnavailable = errors.New("route unavailable")
)

// RoutePlanner resolves the total driving time for a multi-leg route.
// Implemented by maps.RouteService in production.
type RoutePlanner interface {
	TotalTravelTime(ctx context.Context, origin, destination string, waypoints []string, departAt *time.Time) (time.Duration, error)
}

type Service struct {
	routes  RoutePlanner
	cfg     config.PricingConfig
	timeout time.Duration
}

func NewService(routes RoutePlanner, cfg config.PricingConfig, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{routes: routes, cfg: cfg, timeout: timeout}
}

// Quote validates the request, measures the route, and prices it. The
// provider call is bounded by the configured timeout so a slow directions
// backend fails the quote instead of hanging the request.
func (s *Service) Quote(ctx context.Context, req Request) (*Quote, error) {
	pickup := strings.TrimSpace(req.Pickup)
	dropoff := strings.TrimSpace(req.Dropoff)
	if pickup == "" || dropoff == "" {
		return nil, ErrMissingAddress
	}
	stops := CleanStops(req.Stops)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	travel, err := s.routes.TotalTravelTime(ctx, pickup, dropoff, stops, req.DepartAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}

	q := ComputeFare(travel, s.cfg)
	return &q, nil
}

// ComputeFare applies the pricing policy to a measured travel time:
//
//	billableSeconds = max(0, travelSeconds + bufferSeconds)
//	rawPrice        = billableSeconds/3600 * hourlyRate   (half-up at the cent)
//	price           = max(minimumCharge, rawPrice)
//
// Pure function of its inputs; same travel time and config always yield the
// same price.
func ComputeFare(travel time.Duration, cfg config.PricingConfig) Quote {
	travelSeconds := int64(travel / time.Second)
	if travelSeconds < 0 {
		travelSeconds = 0
	}

	billable := travelSeconds + cfg.BufferSeconds
	if billable < 0 {
		billable = 0
	}

	// Integer cents math; +1800 rounds half-up on the /3600 division.
	rawCents := (billable*cfg.HourlyRate.Cents + 1800) / 3600
	raw := types.Money{Cents: rawCents, Currency: cfg.HourlyRate.Currency}
	price := types.Max(cfg.MinimumCharge, raw)

	return Quote{
		TravelSeconds:   travelSeconds,
		BillableSeconds: billable,
		Price:           price,
		MinimumCharge:   cfg.MinimumCharge,
		MinimumApplied:  raw.Cents < cfg.MinimumCharge.Cents,
	}
}

// CleanStops trims each stop and drops entries that are empty afterwards,
// preserving order. Duplicates are allowed; the visit order is the route.
func CleanStops(stops []string) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
