package sales

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository persists company accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Account, error)
	FindAll(ctx context.Context, filter AccountFilter) ([]Account, int64, error)
	// FindForReport returns every account matching the filter without paging
	FindForReport(ctx context.Context, filter AccountFilter) ([]Account, error)
	Save(ctx context.Context, account *Account) error
	// SaveWithLock updates a record loaded at Version-1 and fails with
	// ErrConcurrencyConflict when it was changed or deleted since
	SaveWithLock(ctx context.Context, account *Account) error
	SaveBatch(ctx context.Context, accounts []*Account) error
	// UpdateFields applies the same column values to every listed account and
	// returns the number of rows changed
	UpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]any) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	ExistsByCompanyName(ctx context.Context, referenceID, companyName string) (bool, error)
}

// ActivityRepository persists sales activities
type ActivityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	FindAll(ctx context.Context, filter ActivityFilter) ([]Activity, int64, error)
	FindForReport(ctx context.Context, filter ActivityFilter) ([]Activity, error)
	Save(ctx context.Context, activity *Activity) error
	// SaveWithLock updates a record loaded at Version-1 and fails with
	// ErrConcurrencyConflict when it was changed or deleted since
	SaveWithLock(ctx context.Context, activity *Activity) error
	UpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]any) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// QuotationRepository persists quotations
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindAll(ctx context.Context, filter QuotationFilter) ([]Quotation, int64, error)
	Save(ctx context.Context, quotation *Quotation) error
	// SaveWithLock updates a record loaded at Version-1 and fails with
	// ErrConcurrencyConflict when it was changed or deleted since
	SaveWithLock(ctx context.Context, quotation *Quotation) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// SalesOrderRepository persists sales orders
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindAll(ctx context.Context, filter SalesOrderFilter) ([]SalesOrder, int64, error)
	Save(ctx context.Context, order *SalesOrder) error
	// SaveWithLock updates a record loaded at Version-1 and fails with
	// ErrConcurrencyConflict when it was changed or deleted since
	SaveWithLock(ctx context.Context, order *SalesOrder) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
