package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore namespaces every key under prefix. A zero ttl stores keys
// without expiry.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Pop uses GETDEL so two readers can never both see the same value.
func (r *RedisStore) Pop(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.GetDel(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
