package infra

import (
	"context"
	"errors"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// StockLocker holds a Redis lock per product while its stock is being
// changed, so replicas never interleave writes to the same product.
type StockLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func NewStockLocker(rdb *redis.Client, ttl time.Duration) *StockLocker {
	return &StockLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		// waits up to ~2s for a busy product before giving up
		retry: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	}
}

func stockLockKey(productID uuid.UUID) string { return "lock:stock:" + productID.String() }

// Lock fails with model.ErrConflict when the lock could not be obtained.
func (l *StockLocker) Lock(ctx context.Context, productID uuid.UUID) (func(), error) {
	key := stockLockKey(productID)
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, model.Conflict("stock of product %s is busy, retry later", productID)
	}
	if err != nil {
		return nil, err
	}
	return func() {
		// release on a fresh context: the request context may already be done
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("failed to release stock lock")
		}
	}, nil
}
