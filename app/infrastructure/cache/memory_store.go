package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/gobwas/glob"
)

// MemoryStore is a bounded in-process store. Values live in ristretto, which
// enforces MaxCost and per-entry TTL; a side index of live keys provides the
// enumeration ristretto lacks so that DeletePattern works. Evictions and
// rejections are reported back so the index stays as small as the cache.
type MemoryStore struct {
	cache *ristretto.Cache

	mu  sync.Mutex
	idx map[string]time.Time // key -> expiry, zero means no expiry
}

var _ Store = (*MemoryStore)(nil)

// memoryEntry carries its own key because ristretto only hands hashed keys to
// the eviction callbacks.
type memoryEntry struct {
	key   string
	value []byte
}

type MemoryStoreConfig struct {
	NumCounters int64
	MaxCost     int64 // bytes
	BufferItems int64
}

func DefaultMemoryStoreConfig() MemoryStoreConfig {
	return MemoryStoreConfig{
		NumCounters: 1e5,
		MaxCost:     64 << 20,
		BufferItems: 64,
	}
}

func NewMemoryStore(cfg MemoryStoreConfig) (*MemoryStore, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, fmt.Errorf("memory store: invalid config %+v", cfg)
	}
	m := &MemoryStore{idx: make(map[string]time.Time)}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		IgnoreInternalCost: true,
		OnEvict:            m.dropped,
		OnReject:           m.dropped,
	})
	if err != nil {
		return nil, err
	}
	m.cache = c
	return m, nil
}

// dropped runs on ristretto's policy goroutine. The key is only forgotten
// when no newer value has replaced the dropped one.
func (m *MemoryStore) dropped(item *ristretto.Item) {
	entry, ok := item.Value.(*memoryEntry)
	if !ok {
		return
	}
	if _, live := m.cache.Get(entry.key); live {
		return
	}
	m.forget(entry.key)
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		m.forget(key)
		return nil, false, nil
	}
	entry, _ := v.(*memoryEntry)
	if entry == nil || entry.key != key {
		m.cache.Del(key)
		m.forget(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	entry := &memoryEntry{key: key, value: make([]byte, len(value))}
	copy(entry.value, value)
	if !m.cache.SetWithTTL(key, entry, int64(len(key)+len(value))+1, ttl) {
		// Dropped under contention; the next read simply misses.
		return nil
	}
	m.cache.Wait()
	if _, admitted := m.cache.Get(key); !admitted {
		return nil
	}

	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.idx[key] = exp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.cache.Del(key)
	m.forget(key)
	return nil
}

func (m *MemoryStore) DeletePattern(_ context.Context, pattern string) (int64, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	now := time.Now()

	// Del may block on ristretto's buffer, whose consumer can be waiting
	// on mu in dropped, so matches are collected first and deleted unlocked.
	var matched []string
	m.mu.Lock()
	for key, exp := range m.idx {
		if !exp.IsZero() && now.After(exp) {
			delete(m.idx, key)
			continue
		}
		if !g.Match(key) {
			continue
		}
		matched = append(matched, key)
		delete(m.idx, key)
	}
	m.mu.Unlock()

	var removed int64
	for _, key := range matched {
		if _, live := m.cache.Get(key); live {
			removed++
		}
		m.cache.Del(key)
	}
	return removed, nil
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

func (m *MemoryStore) HealthCheck(context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	m.cache.Close()
	return nil
}

func (m *MemoryStore) forget(key string) {
	m.mu.Lock()
	delete(m.idx, key)
	m.mu.Unlock()
}
