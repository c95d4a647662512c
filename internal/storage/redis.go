package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend Redis 后端，键格式 <prefix>:<profile>:<name>
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend 创建 Redis 后端
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "ticketapp"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(profile, name string) string {
	return r.prefix + ":" + profile + ":" + name
}

func (r *RedisBackend) Get(ctx context.Context, profile, name string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(profile, name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Set 不设置过期时间，与浏览器本地存储一致
func (r *RedisBackend) Set(ctx context.Context, profile, name, value string) error {
	return r.client.Set(ctx, r.key(profile, name), value, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, profile, name string) error {
	return r.client.Del(ctx, r.key(profile, name)).Err()
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
