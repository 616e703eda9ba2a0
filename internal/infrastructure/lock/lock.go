// Package lock provides single-flight leases backed by Redis, with an
// in-process fallback for single-instance deployments.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

const defaultKeyPrefix = "sfa:lock:"

// RedisLocker obtains leases through redislock
type RedisLocker struct {
	client    *redislock.Client
	keyPrefix string
}

// NewRedisLocker creates a locker over a Redis client
func NewRedisLocker(client redislock.RedisClient, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisLocker{client: redislock.New(client), keyPrefix: keyPrefix}
}

// Obtain acquires key for ttl without retrying
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lease, error) {
	held, err := l.client.Obtain(ctx, l.keyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return held, nil
}

// MemoryLocker keeps leases in process memory
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]memoryLease
}

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// NewMemoryLocker creates an empty in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryLease)}
}

// Obtain acquires key for ttl. An expired lease is taken over.
func (l *MemoryLocker) Obtain(_ context.Context, key string, ttl time.Duration) (shared.Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if cur, ok := l.held[key]; ok && now.Before(cur.expiresAt) {
		return nil, shared.ErrLockNotObtained
	}
	token := uuid.NewString()
	l.held[key] = memoryLease{token: token, expiresAt: now.Add(ttl)}
	return &memoryHandle{locker: l, key: key, token: token}, nil
}

type memoryHandle struct {
	locker *MemoryLocker
	key    string
	token  string
}

// Release frees the lease if it is still ours
func (h *memoryHandle) Release(context.Context) error {
	h.locker.mu.Lock()
	defer h.locker.mu.Unlock()
	if cur, ok := h.locker.held[h.key]; ok && cur.token == h.token {
		delete(h.locker.held, h.key)
	}
	return nil
}

var (
	_ shared.Locker = (*RedisLocker)(nil)
	_ shared.Locker = (*MemoryLocker)(nil)
)
