package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfa/backend/internal/domain/shared"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	lease, err := l.Obtain(ctx, "bulk:edit", time.Minute)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "bulk:edit", time.Minute)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)

	other, err := l.Obtain(ctx, "bulk:delete", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	again, err := l.Obtain(ctx, "bulk:edit", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestMemoryLocker_ExpiredLeaseIsTakenOver(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	stale, err := l.Obtain(ctx, "k", -time.Second)
	require.NoError(t, err)

	fresh, err := l.Obtain(ctx, "k", time.Minute)
	require.NoError(t, err)

	// releasing the stale lease must not free the new holder
	require.NoError(t, stale.Release(ctx))
	_, err = l.Obtain(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)
	require.NoError(t, fresh.Release(ctx))
}

func TestMemoryLocker_SingleWinner(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Obtain(ctx, "same", time.Minute); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
