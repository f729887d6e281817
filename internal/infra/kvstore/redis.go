package kvstore

import (
	"context"
	"errors"
	"time"

	"storefront-core/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// RedisKeyStore is a thin TTL key/value layer over Redis. Every key is stored
// under a fixed prefix so several environments can share one instance.
type RedisKeyStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisKeyStore(client redis.Cmdable, prefix string) *RedisKeyStore {
	return &RedisKeyStore{client: client, prefix: prefix}
}

func (s *RedisKeyStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisKeyStore) SetKey(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return errs.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (s *RedisKeyStore) GetKey(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Wrapf(err, "redis get %s", key)
	}
	return v, true, nil
}

func (s *RedisKeyStore) DeleteKey(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errs.Wrapf(err, "redis del %s", key)
	}
	return nil
}

// TakeKey uses GETDEL, so of two concurrent callers only one sees the value.
func (s *RedisKeyStore) TakeKey(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.GetDel(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Wrapf(err, "redis getdel %s", key)
	}
	return v, true, nil
}
