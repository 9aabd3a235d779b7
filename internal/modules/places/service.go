// README: Places service; cached address autocomplete for the booking form.
package places

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tempmotion/internal/maps"
)

// minInputLen matches the form behavior: don't bill the Places API for one
// or two keystrokes.
const minInputLen = 3

// Provider resolves autocomplete suggestions. Implemented by
// maps.PlacesService in production.
type Provider interface {
	Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error)
}

// Cache stores suggestion lists per normalized input.
type Cache interface {
	GetPredictions(ctx context.Context, key string) ([]maps.Prediction, bool, error)
	SetPredictions(ctx context.Context, key string, preds []maps.Prediction, ttl time.Duration) error
}

type Service struct {
	provider Provider
	cache    Cache
	ttl      time.Duration
	log      *logrus.Logger
}

func NewService(provider Provider, cache Cache, ttl time.Duration, log *logrus.Logger) *Service {
	return &Service{provider: provider, cache: cache, ttl: ttl, log: log}
}

// Autocomplete returns suggestions for the input, serving repeated
// keystrokes from the cache. Cache failures degrade to a direct provider
// call; they never fail the request.
func (s *Service) Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error) {
	input = strings.TrimSpace(input)
	if len(input) < minInputLen {
		return []maps.Prediction{}, nil
	}
	key := strings.ToLower(input)

	if s.cache != nil {
		if preds, ok, err := s.cache.GetPredictions(ctx, key); err != nil {
			s.log.WithError(err).Warn("places cache read failed")
		} else if ok {
			return preds, nil
		}
	}

	preds, err := s.provider.Autocomplete(ctx, input)
	if err != nil {
		return nil, err
	}
	if preds == nil {
		preds = []maps.Prediction{}
	}

	if s.cache != nil {
		if err := s.cache.SetPredictions(ctx, key, preds, s.ttl); err != nil {
			s.log.WithError(err).Warn("places cache write failed")
		}
	}
	return preds, nil
}
