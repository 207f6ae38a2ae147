package session

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// redisStore keeps the session in Redis, one string key per field.
type redisStore struct {
	client *goredis.Client
	prefix string
	opts   Options
}

func openRedis(opts Options) (Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	return newRedisStore(client, opts), nil
}

func newRedisStore(client *goredis.Client, opts Options) *redisStore {
	return &redisStore{client: client, prefix: opts.KeyPrefix, opts: opts}
}

func (r *redisStore) key(k string) string { return r.prefix + k }

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session key %s: %w", key, err)
	}
	return value, nil
}

func (r *redisStore) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Set(ctx, r.key(key), value, r.opts.TTL).Err(); err != nil {
		return fmt.Errorf("set session key %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, keys ...string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("delete session keys: %w", err)
	}
	return nil
}

func (r *redisStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
