package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/preference"
	"github.com/sfa/backend/internal/infrastructure/config"
)

// ReportStore caches computed dashboards
type ReportStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Stores bundles the stores backed by Redis, or by process memory when Redis is off
type Stores struct {
	Client      *redis.Client // nil when running in memory
	Preferences preference.Store
	Reports     ReportStore
}

// Close releases the Redis connection or stops in-memory cleanup loops
func (s *Stores) Close() error {
	if c, ok := s.Reports.(*InMemoryReportCache); ok {
		_ = c.Close()
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// Factory creates stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemory creates process-local stores.
// They do not share state across instances, so every replica keeps its own preferences.
func (f *Factory) InMemory() *Stores {
	return &Stores{
		Preferences: NewInMemoryPreferenceStore(),
		Reports:     NewInMemoryReportCache(),
	}
}

// Create connects to Redis when it is enabled and falls back to memory if allowed
func (f *Factory) Create() (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stores")
		return f.InMemory(), nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis stores", zap.String("addr", client.Options().Addr))
		return &Stores{
			Client:      client,
			Preferences: NewRedisPreferenceStore(client, ""),
			Reports:     NewRedisReportCache(client, ""),
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Preferences and bulk locks are not shared between instances.",
		zap.Error(err),
	)
	return f.InMemory(), nil
}
