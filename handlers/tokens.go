package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenStore keeps issued refresh tokens until they expire or are revoked
// by logout.
type TokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	UserID(ctx context.Context, token string) (uint, error)
	Delete(ctx context.Context, token string) error
}

// RedisTokenStore maps refresh tokens to user ids with a TTL.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, token, userID, ttl).Err()
}

func (s *RedisTokenStore) UserID(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.Get(ctx, token).Result()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, token).Err()
}
