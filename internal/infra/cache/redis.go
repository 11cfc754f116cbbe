package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/feedback-radar/internal/domain/analysis"
)

// Redis adapts go-redis to the analysis cache port. The cache is strictly
// best-effort: callers treat any error as a miss.
type Redis struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Redis {
	return &Redis{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, analysis.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

// Ping untuk health check
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
