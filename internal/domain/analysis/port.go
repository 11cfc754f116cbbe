package analysis

import (
	"context"
	"errors"
	"time"
)

const (
	// CacheKeyLatest is the fixed key memoizing the latest analysis
	CacheKeyLatest = "analysis:latest"
	// CacheTTL bounds how long a memoized analysis is served
	CacheTTL = 300 * time.Second
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Classifier port (interface untuk sentiment service)
type Classifier interface {
	ClassifySentiment(ctx context.Context, sample string) (Sentiment, error)
}

// Cache port: key -> JSON blob with TTL, best-effort
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ExportStore port (interface untuk penyimpanan export)
type ExportStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
