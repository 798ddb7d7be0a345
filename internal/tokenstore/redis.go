package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) setPrefixKey(k string) string {
	if r.prefix == "" {
		return k
	}
	var builder strings.Builder
	builder.Grow(len(r.prefix) + 1 + len(k))
	builder.WriteString(r.prefix)
	builder.WriteString(":")
	builder.WriteString(k)
	return builder.String()
}

func (r *RedisStore) Put(ctx context.Context, purpose, token string, userID uint, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.setPrefixKey(key(purpose, token)), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Take(ctx context.Context, purpose, token string) (uint, error) {
	val, err := r.client.GetDel(ctx, r.setPrefixKey(key(purpose, token))).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis getdel: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt token value %q: %w", val, err)
	}
	return uint(id), nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
