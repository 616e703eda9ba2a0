package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sfa/backend/internal/domain/preference"
	"github.com/sfa/backend/internal/infrastructure/config"
)

func TestInMemoryPreferenceStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPreferenceStore()

	t.Run("missing user gets empty preferences", func(t *testing.T) {
		prefs, err := store.Get(ctx, "JD-MAN-000001")
		require.NoError(t, err)
		assert.Equal(t, "JD-MAN-000001", prefs.ReferenceID)
		assert.Empty(t, prefs.RecentEmails)
		assert.NotNil(t, prefs.ExpandedFiltersState)
	})

	t.Run("stored copy is isolated from caller", func(t *testing.T) {
		prefs, err := store.Get(ctx, "JD-MAN-000001")
		require.NoError(t, err)
		prefs.RememberEmail("a@example.com")
		prefs.SelectedAvatar = "fox"
		require.NoError(t, store.Put(ctx, prefs))

		prefs.SelectedAvatar = "changed after put"

		again, err := store.Get(ctx, "JD-MAN-000001")
		require.NoError(t, err)
		assert.Equal(t, "fox", again.SelectedAvatar)
		assert.Equal(t, []string{"a@example.com"}, again.RecentEmails)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "JD-MAN-000001"))
		prefs, err := store.Get(ctx, "JD-MAN-000001")
		require.NoError(t, err)
		assert.Empty(t, prefs.SelectedAvatar)
	})
}

func TestInMemoryPreferenceStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPreferenceStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, "JD-MAN-000002", func(p *preference.Preferences) {
				p.SetFilterExpanded(fmt.Sprintf("panel-%d", i), true)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	prefs, err := store.Get(ctx, "JD-MAN-000002")
	require.NoError(t, err)
	assert.Len(t, prefs.ExpandedFiltersState, 10)
	assert.Equal(t, "JD-MAN-000002", prefs.ReferenceID)

	updated, err := store.Update(ctx, "JD-MAN-000002", func(p *preference.Preferences) {
		p.RememberEmail("b@example.com")
	})
	require.NoError(t, err)
	updated.RecentEmails[0] = "changed after update"
	again, err := store.Get(ctx, "JD-MAN-000002")
	require.NoError(t, err)
	assert.Equal(t, []string{"b@example.com"}, again.RecentEmails)
}

func TestInMemoryReportCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryReportCache()
	defer c.Close()

	type payload struct {
		Total int `json:"total"`
	}

	var out payload
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", payload{Total: 7}, time.Minute))
	hit, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, out.Total)

	require.NoError(t, c.Set(ctx, "expired", payload{Total: 1}, -time.Second))
	hit, err = c.Get(ctx, "expired", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	c.cleanup()
	assert.Equal(t, 1, c.Size())

	require.NoError(t, c.Invalidate(ctx))
	assert.Equal(t, 0, c.Size())
}

func TestInMemoryReportCache_CloseTwice(t *testing.T) {
	c := NewInMemoryReportCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestFactory(t *testing.T) {
	t.Run("disabled redis uses memory", func(t *testing.T) {
		stores, err := NewFactory(config.RedisConfig{Enabled: false}).Create()
		require.NoError(t, err)
		defer stores.Close()
		assert.Nil(t, stores.Client)
		assert.IsType(t, &InMemoryPreferenceStore{}, stores.Preferences)
	})

	t.Run("unreachable redis falls back with a warning", func(t *testing.T) {
		core, recorded := observer.New(zapcore.WarnLevel)
		f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, WithLogger(zap.New(core)))

		stores, err := f.Create()
		require.NoError(t, err)
		defer stores.Close()
		assert.Nil(t, stores.Client)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, WithInMemoryFallback(false))
		_, err := f.Create()
		assert.Error(t, err)
	})
}
