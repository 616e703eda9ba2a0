//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appbulk "github.com/sfa/backend/internal/application/bulk"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// newPostgresDB starts a throwaway PostgreSQL container with every migration applied
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("sfa_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	applyMigrations(t, sqlDB)
	return db
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to run migrations")
	}
}

func TestPostgres_AccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccountRepository(newPostgresDB(t))

	acme, err := sales.NewAccount("JD-MAN-000001", "Acme Corp")
	require.NoError(t, err)
	acme.Extra["industry"] = "steel"
	require.NoError(t, repo.Save(ctx, acme))

	beta, err := sales.NewAccount("JD-MAN-000001", "Beta Trading")
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, []*sales.Account{beta}))

	found, err := repo.FindByID(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "steel", found.Extra["industry"])

	items, total, err := repo.FindAll(ctx, sales.AccountFilter{Filter: shared.Filter{Search: "acme"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme Corp", items[0].CompanyName)

	affected, err := repo.UpdateFields(ctx, []uuid.UUID{acme.ID, beta.ID}, map[string]any{"area": "North"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	n, err := repo.DeleteByIDs(ctx, []uuid.UUID{beta.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPostgres_BulkTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	accounts := NewGormAccountRepository(db)
	scope := NewGormTransactionScope(db)

	a, err := sales.NewAccount("JD-MAN-000001", "Rollback Co")
	require.NoError(t, err)
	require.NoError(t, accounts.Save(ctx, a))

	err = scope.Execute(ctx, func(repos appbulk.TransactionalRepositories) error {
		if _, err := repos.Accounts().UpdateFields(ctx, []uuid.UUID{a.ID}, map[string]any{"area": "Lost"}); err != nil {
			return err
		}
		return shared.ErrConcurrencyConflict
	})
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	reloaded, err := accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Area)
}

func TestPostgres_InventoryLowStock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInventoryItemRepository(newPostgresDB(t))

	item, err := inventory.NewItem("sku-9", "Washers", "Main", decimal.NewFromInt(1), decimal.NewFromInt(10), shared.NewAmountFromFloat(0.25))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	n, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
