package cache

import (
	"context"
	"time"
)

// NoOpStore misses on every read and accepts every write. It backs CACHE_TYPE=none
// and is the fallback when the configured store cannot be reached at startup.
type NoOpStore struct{}

var _ Store = NoOpStore{}

func (NoOpStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoOpStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (NoOpStore) Delete(ctx context.Context, key string) error {
	return nil
}

func (NoOpStore) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	return 0, nil
}

func (NoOpStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (NoOpStore) HealthCheck(ctx context.Context) error {
	return nil
}

func (NoOpStore) Close() error {
	return nil
}
