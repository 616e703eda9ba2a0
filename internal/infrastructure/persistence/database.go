package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sfa/backend/internal/infrastructure/config"
)

// Database wraps the GORM handle shared by every repository
type Database struct {
	DB *gorm.DB
}

type openOptions struct {
	logger     logger.Interface
	dialector  gorm.Dialector
	retries    int
	retryDelay time.Duration
}

// Option configures Open
type Option func(*openOptions)

// WithGormLogger routes SQL logging through l
func WithGormLogger(l logger.Interface) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithDialector replaces the PostgreSQL dialector built from the config
func WithDialector(d gorm.Dialector) Option {
	return func(o *openOptions) {
		o.dialector = d
	}
}

// WithConnectRetries pings up to n extra times, delay apart, before giving up.
// Compose stacks often start the API before PostgreSQL accepts connections.
func WithConnectRetries(n int, delay time.Duration) Option {
	return func(o *openOptions) {
		o.retries = n
		o.retryDelay = delay
	}
}

// Open connects to the database, applies the pool limits and waits for a successful ping
func Open(ctx context.Context, cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	o := openOptions{logger: logger.Default.LogMode(logger.Silent)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dialector == nil {
		o.dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(o.dialector, &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	d := &Database{DB: db}
	for attempt := 0; ; attempt++ {
		err = d.Ping(ctx)
		if err == nil {
			return d, nil
		}
		if attempt >= o.retries {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempt+1, err)
		}
		select {
		case <-ctx.Done():
			_ = sqlDB.Close()
			return nil, ctx.Err()
		case <-time.After(o.retryDelay):
		}
	}
}

// Close closes the connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks that the database answers
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
