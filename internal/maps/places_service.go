package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Prediction is a simplified autocomplete suggestion.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// Bias restricts and weights autocomplete results toward the service area.
type Bias struct {
	Lat     float64
	Lng     float64
	RadiusM uint
	Country string
}

// PlacesService handles interactions with the Google Places Autocomplete API.
type PlacesService struct {
	client *maps.Client
	bias   Bias
}

// NewPlacesService creates a new PlacesService with the given API key.
func NewPlacesService(apiKey string, bias Bias) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, bias: bias}, nil
}

// Autocomplete returns address suggestions for the given input, biased to
// the configured service area.
func (s *PlacesService) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	r := &maps.PlaceAutocompleteRequest{
		Input:  input,
		Radius: s.bias.RadiusM,
	}
	if s.bias.Lat != 0 || s.bias.Lng != 0 {
		r.Location = &maps.LatLng{Lat: s.bias.Lat, Lng: s.bias.Lng}
	}
	if s.bias.Country != "" {
		r.Components = map[maps.Component][]string{
			maps.ComponentCountry: {s.bias.Country},
		}
	}

	resp, err := s.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	preds := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		preds = append(preds, Prediction{Description: p.Description, PlaceID: p.PlaceID})
	}
	return preds, nil
}
