// README: Places service tests (short input, cache hit/miss, degradation).
package places

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"tempmotion/internal/maps"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeProvider struct {
	preds []maps.Prediction
	err   error
	calls int
}

func (f *fakeProvider) Autocomplete(ctx context.Context, input string) ([]maps.Prediction, error) {
	f.calls++
	return f.preds, f.err
}

type memCache struct {
	data     map[string][]maps.Prediction
	getErr   error
	setErr   error
	setCalls int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]maps.Prediction)}
}

func (c *memCache) GetPredictions(ctx context.Context, key string) ([]maps.Prediction, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	preds, ok := c.data[key]
	return preds, ok, nil
}

func (c *memCache) SetPredictions(ctx context.Context, key string, preds []maps.Prediction, ttl time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = preds
	return nil
}

func TestAutocompleteShortInput(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, newMemCache(), time.Minute, quietLogger())

	for _, input := range []string{"", "a", "ab", "  ab  "} {
		preds, err := svc.Autocomplete(context.Background(), input)
		if err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
		if len(preds) != 0 {
			t.Errorf("input %q: got %d predictions, want 0", input, len(preds))
		}
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for short inputs", provider.calls)
	}
}

func TestAutocompleteCachesByNormalizedInput(t *testing.T) {
	provider := &fakeProvider{preds: []maps.Prediction{{Description: "Michigan Ave, Chicago", PlaceID: "p1"}}}
	cache := newMemCache()
	svc := NewService(provider, cache, time.Minute, quietLogger())

	for _, input := range []string{"Michigan", "michigan", "  MICHIGAN  "} {
		preds, err := svc.Autocomplete(context.Background(), input)
		if err != nil {
			t.Fatalf("autocomplete: %v", err)
		}
		if len(preds) != 1 || preds[0].PlaceID != "p1" {
			t.Fatalf("unexpected predictions: %v", preds)
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (rest served from cache)", provider.calls)
	}
}

func TestAutocompleteCacheFailureDegrades(t *testing.T) {
	provider := &fakeProvider{preds: []maps.Prediction{{Description: "State St", PlaceID: "p2"}}}
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := NewService(provider, cache, time.Minute, quietLogger())

	preds, err := svc.Autocomplete(context.Background(), "State")
	if err != nil {
		t.Fatalf("autocomplete should not fail on cache errors: %v", err)
	}
	if len(preds) != 1 {
		t.Fatalf("unexpected predictions: %v", preds)
	}
}

func TestAutocompleteProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("OVER_QUERY_LIMIT")}
	svc := NewService(provider, newMemCache(), time.Minute, quietLogger())

	if _, err := svc.Autocomplete(context.Background(), "Michigan"); err == nil {
		t.Fatal("expected provider error to surface")
	}
}
