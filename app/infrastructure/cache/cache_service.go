package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrorPolicy decides what a store failure means to the caller.
type ErrorPolicy string

const (
	// ErrorPolicyBypass logs store failures and serves from compute (fail-open).
	ErrorPolicyBypass ErrorPolicy = "bypass"
	// ErrorPolicyFail returns store failures to the caller as *StoreError (fail-closed).
	ErrorPolicyFail ErrorPolicy = "fail"
)

func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ErrorPolicyBypass:
		return ErrorPolicyBypass, nil
	case ErrorPolicyFail:
		return ErrorPolicyFail, nil
	default:
		return "", fmt.Errorf("unknown cache store error policy %q", s)
	}
}

// ErrStore matches every *StoreError via errors.Is.
var ErrStore = errors.New("cache store error")

type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

type Options struct {
	Store        Store
	Codec        Codec       // nil => JSONCodec
	KeyPrefix    string      // prepended to every key and pattern
	OnStoreError ErrorPolicy // "" => ErrorPolicyBypass
	Logger       logrus.FieldLogger
}

// CacheService is the cache-aside layer shared by every domain service.
// The cache is never a source of truth: dropping the whole keyspace only
// costs recomputation.
type CacheService struct {
	store  Store
	codec  Codec
	prefix string
	policy ErrorPolicy
	log    logrus.FieldLogger

	flights singleflight.Group

	// epoch is bumped by every invalidation. A miss captures it before
	// computing and only writes back if it is unchanged. gate makes the
	// check-then-write atomic with respect to the bump, so a value computed
	// before an in-process invalidation is never stored after it.
	gate  sync.RWMutex
	epoch atomic.Uint64
}

func NewCacheService(opts Options) *CacheService {
	codec := opts.Codec
	if codec == nil {
		codec = JSONCodec{}
	}
	policy := opts.OnStoreError
	if policy == "" {
		policy = ErrorPolicyBypass
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	store := opts.Store
	if store == nil {
		store = NoOpStore{}
	}
	return &CacheService{
		store:  store,
		codec:  codec,
		prefix: opts.KeyPrefix,
		policy: policy,
		log:    log.WithField("component", "cache"),
	}
}

func (s *CacheService) Policy() ErrorPolicy {
	return s.policy
}

func (s *CacheService) storageKey(key Key) string {
	return s.prefix + string(key)
}

func (s *CacheService) storagePattern(pattern Pattern) string {
	return escapeGlob(s.prefix) + string(pattern)
}

// GetOrSet returns the value cached under key, or computes, stores and returns it.
//
// compute runs at most once per miss and concurrent misses on the same key
// share a single call, made with the context of the first caller. Errors
// from compute are returned unchanged and never cached, so callers signal
// "not found" with an error and cache empty collections as values. A
// ttl <= 0 falls back to TTLDefault.
func GetOrSet[T any](ctx context.Context, s *CacheService, key Key, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" {
		return zero, errors.New("cache: empty key")
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	storageKey := s.storageKey(key)

	raw, hit, err := s.store.Get(ctx, storageKey)
	if err != nil {
		if ferr := s.storeFailure("get", storageKey, err); ferr != nil {
			return zero, ferr
		}
		hit = false
	}
	if hit {
		var cached T
		err := s.codec.Unmarshal(raw, &cached)
		if err == nil {
			s.log.WithField("key", storageKey).Debug("cache hit")
			return cached, nil
		}
		s.log.WithFields(logrus.Fields{
			"key":        storageKey,
			"error_code": "3f1f8e0e-5d2b-4b8a-9f53-3c21a7a0b6c4",
		}).Warnf("dropping undecodable cache entry: %v", err)
		_ = s.store.Delete(ctx, storageKey)
	}

	s.log.WithField("key", storageKey).Debug("cache miss")
	// Flights are per epoch: a read that starts after an invalidation must
	// not share the result of a compute that started before it.
	observed := s.epoch.Load()
	flightKey := storageKey + "#" + strconv.FormatUint(observed, 10)
	v, err, _ := s.flights.Do(flightKey, func() (any, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.writeBack(ctx, storageKey, value, ttl, observed); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	typed, _ := v.(T)
	return typed, nil
}

func (s *CacheService) writeBack(ctx context.Context, storageKey string, value any, ttl time.Duration, observed uint64) error {
	payload, err := s.codec.Marshal(value)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"key":        storageKey,
			"error_code": "b7e2c0c4-6d0a-4a55-8b1e-2f7d7f1d9a10",
		}).Errorf("failed to encode value for cache: %v", err)
		return nil
	}

	s.gate.RLock()
	defer s.gate.RUnlock()
	if s.epoch.Load() != observed {
		s.log.WithField("key", storageKey).Debug("invalidated during compute, skipping write")
		return nil
	}
	if err := s.store.Set(ctx, storageKey, payload, ttl); err != nil {
		return s.storeFailure("set", storageKey, err)
	}
	return nil
}

// Delete removes one key. Deleting a missing key is not an error.
func (s *CacheService) Delete(ctx context.Context, key Key) error {
	s.bumpEpoch()
	storageKey := s.storageKey(key)
	if err := s.store.Delete(ctx, storageKey); err != nil {
		return s.storeFailure("delete", storageKey, err)
	}
	return nil
}

// DeletePattern removes every key matching pattern and returns how many were removed.
// It is not atomic: a key written by another process while the scan runs may survive
// until its TTL expires.
func (s *CacheService) DeletePattern(ctx context.Context, pattern Pattern) (int64, error) {
	s.bumpEpoch()
	storagePattern := s.storagePattern(pattern)
	n, err := s.store.DeletePattern(ctx, storagePattern)
	if err != nil {
		return n, s.storeFailure("delete_pattern", storagePattern, err)
	}
	s.log.WithFields(logrus.Fields{"pattern": storagePattern, "removed": n}).Debug("cache pattern invalidated")
	return n, nil
}

// Invalidate deletes keys and patterns concurrently. Every deletion is attempted;
// the first failure is returned only under ErrorPolicyFail.
func (s *CacheService) Invalidate(ctx context.Context, keys []Key, patterns ...Pattern) error {
	var g errgroup.Group
	for _, key := range keys {
		g.Go(func() error {
			return s.Delete(ctx, key)
		})
	}
	for _, pattern := range patterns {
		g.Go(func() error {
			_, err := s.DeletePattern(ctx, pattern)
			return err
		})
	}
	return g.Wait()
}

// Flush removes every key under this service's prefix.
func (s *CacheService) Flush(ctx context.Context) (int64, error) {
	return s.DeletePattern(ctx, Pattern("*"))
}

func (s *CacheService) Exists(ctx context.Context, key Key) (bool, error) {
	ok, err := s.store.Exists(ctx, s.storageKey(key))
	if err != nil {
		return false, s.storeFailure("exists", s.storageKey(key), err)
	}
	return ok, nil
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

func (s *CacheService) Close() error {
	return s.store.Close()
}

func (s *CacheService) bumpEpoch() {
	s.gate.Lock()
	s.epoch.Add(1)
	s.gate.Unlock()
}

func (s *CacheService) storeFailure(op string, key string, err error) error {
	if s.policy == ErrorPolicyFail {
		return &StoreError{Op: op, Key: key, Err: err}
	}
	s.log.WithFields(logrus.Fields{
		"op":         op,
		"key":        key,
		"error_code": "8c0d5a8e-1f7b-4e0c-a3f4-5b9d2e6c7a41",
	}).Warnf("cache store unavailable, bypassing: %v", err)
	return nil
}
