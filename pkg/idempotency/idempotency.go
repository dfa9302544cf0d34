package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/feriavirtual/marketplace-backend/pkg/redis"
)

// Guard claims caller-supplied idempotency keys using Redis SETNX with a TTL.
// Keys follow the `feria:idempotency:<scope>:<key>` pattern.
type Guard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewGuard builds a guard that holds claimed keys for the given TTL.
func NewGuard(store redis.IdempotencyStore, ttl time.Duration) (*Guard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &Guard{store: store, ttl: ttl}, nil
}

// Claim attempts to take ownership of the key. It returns true when the key
// was already claimed by an earlier call.
func (g *Guard) Claim(ctx context.Context, scope, key string) (alreadyClaimed bool, err error) {
	redisKey, err := g.key(scope, key)
	if err != nil {
		return false, err
	}
	set, err := g.store.SetNX(ctx, redisKey, "1", g.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Release frees a claimed key so the caller may retry after a rollback.
func (g *Guard) Release(ctx context.Context, scope, key string) error {
	redisKey, err := g.key(scope, key)
	if err != nil {
		return err
	}
	return g.store.Del(ctx, redisKey)
}

func (g *Guard) key(scope, key string) (string, error) {
	if scope == "" {
		return "", errors.New("scope is required")
	}
	if key == "" {
		return "", errors.New("key is required")
	}
	return g.store.IdempotencyKey(scope, key), nil
}
