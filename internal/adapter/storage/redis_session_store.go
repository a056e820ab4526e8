package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

const (
	cartKeyPrefix     = "cart:"
	denylistKeyPrefix = "denylist:"
	defaultCartTTL    = 7 * 24 * time.Hour
)

// RedisCartStore keeps each user's cart as one JSON value that expires after
// a period of inactivity.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisCartStore{client: client, ttl: ttl}
}

func (r *RedisCartStore) LoadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &domain.Cart{Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		return nil, domain.NewTransportError("redis: load cart", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart for %s: %w", userID, err)
	}
	return &cart, nil
}

func (r *RedisCartStore) SaveCart(ctx context.Context, userID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart for %s: %w", userID, err)
	}
	return domain.NewTransportError("redis: save cart", r.client.Set(ctx, cartKeyPrefix+userID, data, r.ttl).Err())
}

func (r *RedisCartStore) DeleteCart(ctx context.Context, userID string) error {
	return domain.NewTransportError("redis: delete cart", r.client.Del(ctx, cartKeyPrefix+userID).Err())
}

// RedisTokenDenylist remembers signed-out token ids until they would have
// expired anyway.
type RedisTokenDenylist struct {
	client *redis.Client
}

func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

func (r *RedisTokenDenylist) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := r.client.SetNX(ctx, denylistKeyPrefix+tokenID, 1, ttl).Result()
	return domain.NewTransportError("redis: deny token", err)
}

func (r *RedisTokenDenylist) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, domain.NewTransportError("redis: check denylist", err)
	}
	return n > 0, nil
}
