package persistence

import (
	"context"

	"gorm.io/gorm"

	appbulk "github.com/sfa/backend/internal/application/bulk"
	"github.com/sfa/backend/internal/domain/sales"
)

// GormTransactionScope runs bulk work inside one GORM transaction
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbulk.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Accounts() sales.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormTransactionalRepositories) Activities() sales.ActivityRepository {
	return NewGormActivityRepository(r.tx)
}

var (
	_ appbulk.TransactionScope          = (*GormTransactionScope)(nil)
	_ appbulk.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
