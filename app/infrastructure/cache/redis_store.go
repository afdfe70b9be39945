package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore stores entries in Redis.
type RedisStore struct {
	client      redis.UniversalClient
	closeClient bool
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. closeClient should be true only when
// the store owns the client exclusively.
func NewRedisStore(client redis.UniversalClient, closeClient bool) *RedisStore {
	return &RedisStore{client: client, closeClient: closeClient}
}

// Client exposes the underlying connection for the redsync locker.
func (r *RedisStore) Client() redis.UniversalClient {
	return r.client
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get value: %w", err)
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Delete unlinks the key so large values are reclaimed off the main thread.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Unlink(ctx, key).Err()
}

// DeletePattern walks the keyspace with SCAN and unlinks matches batch by batch.
// Keys written after a batch has been scanned may survive.
func (r *RedisStore) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(keys) > 0 {
			pipe := r.client.Pipeline()
			cmds := make([]*redis.IntCmd, 0, len(keys))
			for _, k := range keys {
				cmds = append(cmds, pipe.Unlink(ctx, k))
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return removed, fmt.Errorf("failed to unlink keys: %w", err)
			}
			for _, cmd := range cmds {
				removed += cmd.Val()
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return removed, nil
}

func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}

func (r *RedisStore) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client only when this store owns it. Repeated calls are no-ops.
func (r *RedisStore) Close() error {
	if !r.closeClient {
		return nil
	}
	if err := r.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
