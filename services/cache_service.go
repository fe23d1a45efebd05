package services

import (
	"context"
	"errors"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheService is a key-value response cache with per-entry TTL.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCacheService implements CacheService on a redis client
type RedisCacheService struct {
	client *redis.Client
}

var cacheServiceInstance CacheService

// InitCacheService connects to redis and installs the cache service.
// An empty redisURL disables caching; callers must handle a nil service.
func InitCacheService(redisURL string) (CacheService, error) {
	if redisURL == "" {
		logger.L().Warn("REDIS_URL not set, response caching disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.L().Warn("redis unreachable, response caching disabled", zap.Error(err))
		return nil, nil
	}

	cacheServiceInstance = &RedisCacheService{client: client}
	return cacheServiceInstance, nil
}

// GetCacheService returns the installed cache service, or nil when caching
// is disabled.
func GetCacheService() CacheService {
	return cacheServiceInstance
}

// SetCacheService sets the cache service instance (primarily for testing)
func SetCacheService(service CacheService) {
	cacheServiceInstance = service
}

// Get fetches a cached value.
func (c *RedisCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value with the given TTL.
func (c *RedisCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the given keys.
func (c *RedisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeletePrefix removes every key matching prefix* via SCAN.
func (c *RedisCacheService) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}
