package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// LockKey names the lock guarding the inventory documents
const LockKey = "lock:inventory"

// ErrLockNotObtained is returned when the inventory lock stays busy until the context ends
var ErrLockNotObtained = errors.New("inventory is locked by another operation")

// Locker serialises units of work
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// LocalLocker serialises units of work within one process
type LocalLocker struct {
	sem chan struct{}
}

// NewLocalLocker creates an unlocked LocalLocker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

// Lock blocks until the lock is free or ctx is done
func (l *LocalLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrLockNotObtained, ctx.Err())
	}
}

// RedisLocker holds a Redis lease so several service instances sharing one
// Redis store do not interleave writes.
type RedisLocker struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
	logger *logger.Logger
}

// NewRedisLocker creates a lock on key with lease ttl
func NewRedisLocker(rc redis.UniversalClient, key string, ttl time.Duration, log *logger.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisLocker{
		client: redislock.New(rc),
		key:    key,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		logger: log.WithComponent("locker"),
	}
}

// Lock obtains the lease, retrying linearly until ctx is done or the lease ttl elapses
func (l *RedisLocker) Lock(ctx context.Context) (func(), error) {
	lock, err := l.client.Obtain(ctx, l.key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("obtain inventory lock: %w", err)
	}

	return func() {
		// a fresh context so a cancelled request still releases its lease
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			// ErrLockNotHeld: the lease expired while the unit of work ran
			l.logger.Warn().Err(err).
				Str("key", l.key).
				Dur("ttl", l.ttl).
				Msg("inventory lock was not held at release")
		}
	}, nil
}

// NewLocker picks the lock matching the backend: a Redis lease for Redis
// storage, a process mutex otherwise.
func NewLocker(backend store.Backend, ttl time.Duration, log *logger.Logger) Locker {
	if rb, ok := backend.(*store.RedisBackend); ok {
		return NewRedisLocker(rb.Client(), rb.Key(LockKey), ttl, log)
	}
	return NewLocalLocker()
}
