package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cart"

// RedisStorage keeps one cart record per key under a fixed, well-known
// prefix, so the same cart is visible from every page of the storefront.
// Records expire together with the session that owns them.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, cartID string) ([]byte, error) {
	rec, err := s.client.Get(ctx, redisKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart record[%s]: %w", cartID, err)
	}
	return rec, nil
}

func (s *RedisStorage) Save(ctx context.Context, cartID string, record []byte) error {
	if err := s.client.Set(ctx, redisKey(cartID), record, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving cart record[%s]: %w", cartID, err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, redisKey(cartID)).Err(); err != nil {
		return fmt.Errorf("deleting cart record[%s]: %w", cartID, err)
	}
	return nil
}

func redisKey(cartID string) string {
	return redisKeyPrefix + ":" + cartID
}
