// README: Autocomplete cache backed by Redis.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tempmotion/internal/maps"
)

const cacheKeyPrefix = "places:autocomplete:%s"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) GetPredictions(ctx context.Context, key string) ([]maps.Prediction, bool, error) {
	val, err := s.redis.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var preds []maps.Prediction
	if err := json.Unmarshal(val, &preds); err != nil {
		return nil, false, err
	}
	return preds, true, nil
}

func (s *Store) SetPredictions(ctx context.Context, key string, preds []maps.Prediction, ttl time.Duration) error {
	val, err := json.Marshal(preds)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cacheKey(key), val, ttl).Err()
}

func cacheKey(input string) string {
	return fmt.Sprintf(cacheKeyPrefix, input)
}
