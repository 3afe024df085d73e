package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"service-area-service/internal/domain"
	"service-area-service/internal/ports"
)

// RedisSolveCache is a Redis-backed cache for solve results with a TTL,
// suited to deployments where drive times drift as road data updates.
type RedisSolveCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSolveCache(client *redis.Client, ttl time.Duration) *RedisSolveCache {
	return &RedisSolveCache{Client: client, TTL: ttl}
}

func (r *RedisSolveCache) redisKey(key ports.SolveKey) string {
	return fmt.Sprintf("sa:%s:%d:%s", originKey(key), key.RangeSeconds, key.Profile)
}

// Get fetches the cached polygons for one solve key.
func (r *RedisSolveCache) Get(
	ctx context.Context,
	key ports.SolveKey,
) ([]domain.Polygon, bool, error) {
	if r.Client == nil {
		return nil, false, errors.New("solve cache: redis client is nil")
	}
	if key.Profile == "" {
		return nil, false, errors.New("get solve cache: profile must not be empty")
	}

	blob, err := r.Client.Get(ctx, r.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solve cache: redis get: %w", err)
	}

	var polygons []domain.Polygon
	if err := json.Unmarshal([]byte(blob), &polygons); err != nil {
		return nil, false, fmt.Errorf("get solve cache: decode polygons: %w", err)
	}

	return polygons, true, nil
}

// Put stores the polygons for one solve key with the configured TTL.
func (r *RedisSolveCache) Put(
	ctx context.Context,
	key ports.SolveKey,
	polygons []domain.Polygon,
) error {
	if r.Client == nil {
		return errors.New("solve cache: redis client is nil")
	}
	if key.Profile == "" {
		return errors.New("insert solve cache: profile must not be empty")
	}

	blob, err := json.Marshal(polygons)
	if err != nil {
		return fmt.Errorf("insert solve cache: encode polygons: %w", err)
	}

	if err := r.Client.Set(ctx, r.redisKey(key), blob, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert solve cache origin=%q: redis set: %w", originKey(key), err)
	}

	return nil
}
