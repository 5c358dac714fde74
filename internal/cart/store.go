package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists carts between requests. The Redis implementation keeps one
// JSON blob per user with a sliding TTL, so abandoned carts expire on their own.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, userID uuid.UUID, c *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID uuid.UUID) string { return "cart:" + userID.String() }

// Get returns the stored cart, or a fresh empty one when none exists.
func (s *redisStore) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.Lines == nil {
		c.Lines = make(map[uuid.UUID]Line)
	}
	return &c, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(userID), raw, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}
