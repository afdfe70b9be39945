package cache

import (
	"context"
	"time"
)

// Store is the key-value backend behind CacheService.
//
// Get returns (value, true, nil) on hit and (nil, false, nil) on miss; any
// transport or server failure is returned as an error. A ttl <= 0 on Set
// means the entry does not expire. Delete of a missing key is not an error.
// DeletePattern uses Redis glob syntax and returns the number of keys removed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
