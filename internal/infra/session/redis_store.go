package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lume/internal/domain/model"
	"lume/internal/infra/logger"
	repo "lume/internal/repository"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix = "lume:cart:"
	maxWatchRetries  = 5
)

// releaseLease deletes the lease key only while it still holds our token, so
// a lease that expired and was taken by another checkout is left alone.
var releaseLease = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps each cart under its own key with a sliding TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	b, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Cart{}, nil
	}
	if err != nil {
		return model.Cart{}, err
	}
	return decodeCart(b)
}

// Update runs fn under WATCH; fn may run again if another writer wins.
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(c *model.Cart) error) error {
	key := s.key(sessionID)

	txf := func(tx *redis.Tx) error {
		var cart model.Cart
		b, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if cart, err = decodeCart(b); err != nil {
				return err
			}
		}

		if err := fn(&cart); err != nil {
			return err
		}

		data, err := encodeCart(cart)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("cart %s: %w", sessionID, ErrContention)
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *RedisStore) leaseKey(sessionID string) string {
	return s.key(sessionID) + ":checkout"
}

// Consume holds a SETNX lease next to the cart key while fn runs, then drops
// the consumed lines with the same WATCH loop as Update.
func (s *RedisStore) Consume(ctx context.Context, sessionID string, fn func(lines []model.CartLine) error) error {
	lease := s.leaseKey(sessionID)
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, lease, token, checkoutLease).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repo.ErrCheckoutInProgress
	}
	defer func() {
		if err := releaseLease.Run(context.WithoutCancel(ctx), s.client, []string{lease}, token).Err(); err != nil {
			logger.FromContext(ctx).Warn("cart lease release failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	cart, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(cart.Lines); err != nil {
		return err
	}
	if cart.IsEmpty() {
		return nil
	}
	return s.Update(context.WithoutCancel(ctx), sessionID, func(c *model.Cart) error {
		c.Remove(cart.Lines)
		return nil
	})
}
