package services

import (
	"context"
	"strconv"
	"time"

	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/nimasrn/bizledger/pkg/redis"
	"github.com/pkg/errors"
)

const loginFailKeyPrefix = "login:fail:"

// CounterStore is the subset of the redis adapter the throttle needs.
type CounterStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, key string) error
}

// LoginThrottle counts failed logins per email inside a fixed window. Store
// failures are logged and let the attempt through.
type LoginThrottle struct {
	store       CounterStore
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(store CounterStore, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{store: store, maxAttempts: maxAttempts, window: window}
}

func (t *LoginThrottle) key(email string) string {
	return loginFailKeyPrefix + model.NormalizeEmail(email)
}

// Check returns ErrTooManyAttempts once the failure count reached the limit.
func (t *LoginThrottle) Check(ctx context.Context, email string) error {
	raw, err := t.store.Get(ctx, t.key(email))
	if err != nil {
		if !errors.Is(err, redis.NilError) {
			logger.Warn("login throttle unavailable, allowing attempt", "error", err)
		}
		return nil
	}
	count, err := strconv.Atoi(string(raw))
	if err != nil {
		return nil
	}
	if count >= t.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

func (t *LoginThrottle) Fail(ctx context.Context, email string) {
	if _, err := t.store.IncrWithTTL(ctx, t.key(email), t.window); err != nil {
		logger.Warn("login throttle: failed to count attempt", "error", err)
	}
}

func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if err := t.store.Del(ctx, t.key(email)); err != nil {
		logger.Warn("login throttle: failed to reset", "error", err)
	}
}
