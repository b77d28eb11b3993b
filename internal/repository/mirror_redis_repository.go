package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces mirror keys in a shared Redis.
const RedisKeyPrefix = "support-desk:"

type redisMirrorRepository struct {
	client *redis.Client
}

// NewRedisMirrorRepository builds a mirror on plain Redis string keys.
func NewRedisMirrorRepository(client *redis.Client) MirrorRepository {
	return &redisMirrorRepository{client: client}
}

func (r *redisMirrorRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, RedisKeyPrefix+key, value, 0).Err()
}

func (r *redisMirrorRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *redisMirrorRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, RedisKeyPrefix+key).Err()
}
