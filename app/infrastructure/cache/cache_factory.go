package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/utils/logger"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/redis/go-redis/v9"
	"github.com/valkey-io/valkey-go"
)

const (
	StoreTypeRedis  = "redis"
	StoreTypeValkey = "valkey"
	StoreTypeMemory = "memory"
	StoreTypeNone   = "none"
)

// NewStore creates the store selected by CACHE_TYPE. Connection problems are
// logged rather than returned so the API can start with a cold or absent cache.
func NewStore() Store {
	env := environment_variables.EnvironmentVariables
	cacheType := strings.ToLower(env.CACHE_TYPE)
	if cacheType == "" {
		cacheType = StoreTypeRedis
	}

	switch cacheType {
	case StoreTypeRedis:
		return newRedisStoreFromEnv()
	case StoreTypeValkey:
		return newValkeyStoreFromEnv()
	case StoreTypeMemory:
		store, err := NewMemoryStore(DefaultMemoryStoreConfig())
		if err != nil {
			logger.GetLogger().Errorf("Failed to create memory cache: %v", err)
			return NoOpStore{}
		}
		return store
	case StoreTypeNone:
		return NoOpStore{}
	default:
		logger.GetLogger().Warnf("Unknown CACHE_TYPE %q, falling back to redis", env.CACHE_TYPE)
		return newRedisStoreFromEnv()
	}
}

func newRedisStoreFromEnv() Store {
	env := environment_variables.EnvironmentVariables
	redisURL := env.CACHE_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.GetLogger().Errorf("Failed to parse Redis URL: %v", err)
		return NoOpStore{}
	}
	if env.CACHE_PASSWORD != "" {
		opts.Password = env.CACHE_PASSWORD
	}
	if env.CACHE_DB != "" {
		if db, err := strconv.Atoi(env.CACHE_DB); err == nil {
			opts.DB = db
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().Errorf("Failed to connect to Redis: %v", err)
	} else {
		logger.GetLogger().Info("Successfully connected to Redis")
	}
	return NewRedisStore(client, true)
}

func newValkeyStoreFromEnv() Store {
	env := environment_variables.EnvironmentVariables
	valkeyURL := env.CACHE_URL
	if valkeyURL == "" {
		valkeyURL = "valkey://localhost:6379"
	}

	address, password, db, err := parseValkeyURL(valkeyURL)
	if err != nil {
		logger.GetLogger().Errorf("Failed to parse Valkey URL: %v", err)
		return NoOpStore{}
	}

	opts := valkey.ClientOption{InitAddress: []string{address}}
	if password != "" {
		opts.Password = password
	}
	if db != -1 {
		opts.SelectDB = db
	}
	if env.CACHE_PASSWORD != "" {
		opts.Password = env.CACHE_PASSWORD
	}
	if env.CACHE_DB != "" {
		if db, err := strconv.Atoi(env.CACHE_DB); err == nil {
			opts.SelectDB = db
		}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		logger.GetLogger().Errorf("Failed to connect to Valkey: %v", err)
		return NoOpStore{}
	}
	logger.GetLogger().Info("Successfully connected to Valkey")
	return NewValkeyStore(client)
}

// NewCacheServiceFromEnv wraps store with the codec, prefix and error policy from config.
func NewCacheServiceFromEnv(store Store) (*CacheService, error) {
	env := environment_variables.EnvironmentVariables
	codec, err := CodecByName(env.CACHE_CODEC)
	if err != nil {
		return nil, err
	}
	policy, err := ParseErrorPolicy(env.CACHE_ON_STORE_ERROR)
	if err != nil {
		return nil, err
	}
	prefix := env.CACHE_KEY_PREFIX
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	logger.GetLogger().Infof("Cache ready: store=%T codec=%s prefix=%q on_store_error=%s", store, codec.Name(), prefix, policy)
	return NewCacheService(Options{
		Store:        store,
		Codec:        codec,
		KeyPrefix:    prefix,
		OnStoreError: policy,
		Logger:       logger.GetLogger(),
	}), nil
}

// NewLocker picks the distributed locker when the store is Redis and an
// in-process one otherwise.
func NewLocker(store Store) Locker {
	prefix := environment_variables.EnvironmentVariables.CACHE_KEY_PREFIX
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if rs, ok := store.(*RedisStore); ok {
		return NewRedisLocker(rs.Client(), LockPrefix(prefix))
	}
	return NewLocalLocker()
}

// LockPrefix derives the lock namespace from the cache key prefix. Lock keys
// never start with the cache prefix, so Flush and admin patterns cannot
// release a held lock.
func LockPrefix(keyPrefix string) string {
	return "lock:" + keyPrefix
}
