package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"plan-picker/internal/model"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisKeyPrefix = "plan-picker:catalog:"

// RedisCache shares catalog responses between API replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr (a redis:// URL) and pings it.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("can't parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheFromClient(client, ttl), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (rc *RedisCache) Get(ctx context.Context, key string) (*model.CatalogResponse, bool) {
	raw, err := rc.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("[RedisCache] get %s: %v", key, err)
		}
		return nil, false
	}
	var resp model.CatalogResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		log.Warnf("[RedisCache] corrupt entry %s: %v", key, err)
		return nil, false
	}
	return &resp, true
}

func (rc *RedisCache) Set(ctx context.Context, key string, resp *model.CatalogResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		log.Warnf("[RedisCache] marshal %s: %v", key, err)
		return
	}
	if err := rc.client.Set(ctx, redisKeyPrefix+key, raw, rc.ttl).Err(); err != nil {
		log.Warnf("[RedisCache] set %s: %v", key, err)
	}
}

// Close releases the underlying connection pool.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
