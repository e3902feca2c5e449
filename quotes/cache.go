package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// Cache stores recent prices so repeated lookups inside the TTL window do
// not hit the external API.
type Cache interface {
	Get(ctx context.Context, symbol string) (decimal.Decimal, error)
	Set(ctx context.Context, symbol string, price decimal.Decimal, ttl time.Duration) error
}

// RedisCache keeps prices under stock:<SYMBOL>:price keys.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func priceKey(symbol string) string {
	return fmt.Sprintf("stock:%s:price", symbol)
}

func (c *RedisCache) Get(ctx context.Context, symbol string) (decimal.Decimal, error) {
	val, err := c.rdb.Get(ctx, priceKey(symbol)).Result()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val)
}

func (c *RedisCache) Set(ctx context.Context, symbol string, price decimal.Decimal, ttl time.Duration) error {
	return c.rdb.Set(ctx, priceKey(symbol), price.String(), ttl).Err()
}
