package maps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"
)

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// TotalTravelTime returns the driving duration for the full multi-leg route
// origin -> waypoints (in order) -> destination. When departAt is non-nil it
// is passed through so live traffic at the scheduled departure is reflected;
// otherwise traffic at quote time is used. Provider errors are returned
// untouched; callers surface them without retrying.
func (s *RouteService) TotalTravelTime(ctx context.Context, origin, destination string, waypoints []string, departAt *time.Time) (time.Duration, error) {
	r := &maps.DirectionsRequest{
		Origin:        origin,
		Destination:   destination,
		Waypoints:     waypoints,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
	}
	if departAt != nil {
		r.DepartureTime = strconv.FormatInt(departAt.Unix(), 10)
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found")
	}

	var total time.Duration
	for _, leg := range routes[0].Legs {
		d := leg.Duration
		if leg.DurationInTraffic > 0 {
			d = leg.DurationInTraffic
		}
		total += d
	}
	return total, nil
}
