package redis

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

type RedisAdapter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	// IncrWithTTL increments key and starts its expiry when the key is new.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

type redisAdapter struct {
	prefix   string
	Conn     goredis.UniversalClient
	ConnName string
}

var redisLock = &sync.RWMutex{}
var redisInstance map[string]RedisAdapter

// NewRedisAdapter connects once per connName and returns the shared adapter
// on later calls.
func NewRedisAdapter(connName string, keysPrefix string, opts *Options) (RedisAdapter, error) {
	redisLock.RLock()
	if adapter, ok := redisInstance[connName]; ok {
		redisLock.RUnlock()
		return adapter, nil
	}
	redisLock.RUnlock()

	adapter, err := New(connName, keysPrefix, opts)
	if err != nil {
		return nil, err
	}

	redisLock.Lock()
	defer redisLock.Unlock()
	if redisInstance == nil {
		redisInstance = make(map[string]RedisAdapter)
	}
	if existing, ok := redisInstance[connName]; ok {
		_ = adapter.Close()
		return existing, nil
	}
	redisInstance[connName] = adapter
	return adapter, nil
}

// New connects a standalone adapter that is not registered by name.
func New(connName string, keysPrefix string, opts *Options) (RedisAdapter, error) {
	c := goredis.NewUniversalClient(opts)
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return &redisAdapter{
		Conn:     c,
		prefix:   keysPrefix,
		ConnName: connName,
	}, nil
}

func (r *redisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	st := r.Conn.Get(ctx, r.prefix+key)
	if err := st.Err(); err != nil {
		return nil, err
	}
	return st.Bytes()
}

func (r *redisAdapter) Del(ctx context.Context, key string) error {
	return r.Conn.Del(ctx, r.prefix+key).Err()
}

func (r *redisAdapter) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := r.Conn.Incr(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "incr")
	}
	if n == 1 {
		if err = r.Conn.Expire(ctx, r.prefix+key, ttl).Err(); err != nil {
			return n, errors.Wrap(err, "expire")
		}
	}
	return n, nil
}

func (r *redisAdapter) Ping(ctx context.Context) error {
	return r.Conn.Ping(ctx).Err()
}

func (r *redisAdapter) Close() error {
	return r.Conn.Close()
}
