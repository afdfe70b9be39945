package cache

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore stores entries in Valkey through the valkey-go client.
type ValkeyStore struct {
	client valkey.Client
}

var _ Store = (*ValkeyStore)(nil)

func NewValkeyStore(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

// parseValkeyURL splits a valkey:// or redis:// URL into address, password and
// database. database is -1 when the URL does not select one.
func parseValkeyURL(valkeyURL string) (address, password string, database int, err error) {
	database = -1

	if !strings.Contains(valkeyURL, "://") {
		return valkeyURL, "", -1, nil
	}

	u, err := url.Parse(valkeyURL)
	if err != nil {
		return "", "", -1, fmt.Errorf("invalid URL format: %w", err)
	}

	address = u.Host
	if address == "" {
		return "", "", -1, fmt.Errorf("no host specified in URL")
	}

	if u.User != nil {
		password, _ = u.User.Password()
	}

	if dbStr := strings.TrimPrefix(u.Path, "/"); dbStr != "" {
		if db, parseErr := strconv.Atoi(dbStr); parseErr == nil {
			database = db
		}
	}

	return address, password, database, nil
}

func (v *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get value: %w", err)
	}
	return val, true, nil
}

func (v *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := v.client.B().Set().Key(key).Value(valkey.BinaryString(value))
	if ttl <= 0 {
		return v.client.Do(ctx, cmd.Build()).Error()
	}
	// EX has second resolution; round up so short TTLs never become "no expiry".
	seconds := int64(math.Ceil(ttl.Seconds()))
	return v.client.Do(ctx, cmd.ExSeconds(seconds).Build()).Error()
}

func (v *ValkeyStore) Delete(ctx context.Context, key string) error {
	return v.client.Do(ctx, v.client.B().Unlink().Key(key).Build()).Error()
}

func (v *ValkeyStore) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	for {
		entry, err := v.client.Do(ctx, v.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatchSize).Build()).AsScanEntry()
		if err != nil {
			return removed, fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(entry.Elements) > 0 {
			// One UNLINK per key: matches rarely share a hash slot and the
			// builder refuses cross-slot multi-key commands.
			cmds := make([]valkey.Completed, 0, len(entry.Elements))
			for _, k := range entry.Elements {
				cmds = append(cmds, v.client.B().Unlink().Key(k).Build())
			}
			for _, resp := range v.client.DoMulti(ctx, cmds...) {
				n, err := resp.AsInt64()
				if err != nil {
					return removed, fmt.Errorf("failed to unlink keys: %w", err)
				}
				removed += n
			}
		}
		if entry.Cursor == 0 {
			break
		}
		cursor = entry.Cursor
	}
	return removed, nil
}

func (v *ValkeyStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := v.client.Do(ctx, v.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return count > 0, nil
}

func (v *ValkeyStore) HealthCheck(ctx context.Context) error {
	return v.client.Do(ctx, v.client.B().Ping().Build()).Error()
}

func (v *ValkeyStore) Close() error {
	v.client.Close()
	return nil
}
