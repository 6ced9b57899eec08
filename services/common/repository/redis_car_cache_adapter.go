package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

const CarCachePrefix = "car_cache:"

// RedisCarCacheAdapter keeps cache entries as JSON under car_cache:<id>. The
// Redis TTL only reclaims memory; validity is still decided by Expiry.
type RedisCarCacheAdapter struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisCarCacheAdapter(client redis.Cmdable) *RedisCarCacheAdapter {
	return &RedisCarCacheAdapter{client: client, now: time.Now}
}

type redisCacheEntry struct {
	Data   models.Car `json:"data"`
	Expiry int64      `json:"expiry"`
}

func (r *RedisCarCacheAdapter) Get(ctx context.Context, carID string) (*models.CacheEntry, error) {
	raw, err := r.client.Get(ctx, CarCachePrefix+carID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e redisCacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry %s: %w", carID, err)
	}
	return &models.CacheEntry{CarID: carID, Data: e.Data, Expiry: e.Expiry}, nil
}

func (r *RedisCarCacheAdapter) Put(ctx context.Context, e models.CacheEntry) error {
	raw, err := json.Marshal(redisCacheEntry{Data: e.Data, Expiry: e.Expiry})
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", e.CarID, err)
	}
	ttl := time.Unix(e.Expiry, 0).Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, CarCachePrefix+e.CarID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
