package shared

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained is returned when another holder owns the lock
var ErrLockNotObtained = errors.New("lock not obtained")

// Locker grants short exclusive leases keyed by name
type Locker interface {
	// Obtain acquires key for ttl or returns ErrLockNotObtained without waiting
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock
type Lease interface {
	Release(ctx context.Context) error
}
