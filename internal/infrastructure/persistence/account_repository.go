package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements sales.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads every listed account that exists
func (r *GormAccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]sales.Account, error) {
	if len(ids) == 0 {
		return []sales.Account{}, nil
	}
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return accountsToDomain(rows), nil
}

// FindAll returns one page of accounts and the total matching count
func (r *GormAccountRepository) FindAll(ctx context.Context, filter sales.AccountFilter) ([]sales.Account, int64, error) {
	var rows []models.AccountModel
	total, err := listPage(r.applyFilter(r.db.WithContext(ctx).Model(&models.AccountModel{}), filter),
		filter.Filter, AccountSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	return accountsToDomain(rows), total, nil
}

// FindForReport returns every matching account ordered by company name
func (r *GormAccountRepository) FindForReport(ctx context.Context, filter sales.AccountFilter) ([]sales.Account, error) {
	var rows []models.AccountModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.AccountModel{}), filter).
		Order("company_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return accountsToDomain(rows), nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *sales.Account) error {
	return r.db.WithContext(ctx).Save(models.AccountModelFromDomain(account)).Error
}

// SaveWithLock updates an account loaded at Version-1
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *sales.Account) error {
	return saveWithLock(r.db.WithContext(ctx), models.AccountModelFromDomain(account), account.ID, account.Version, "Account")
}

// SaveBatch inserts new accounts in batches of 100 rows
func (r *GormAccountRepository) SaveBatch(ctx context.Context, accounts []*sales.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	rows := make([]*models.AccountModel, len(accounts))
	for i, a := range accounts {
		rows[i] = models.AccountModelFromDomain(a)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// UpdateFields applies the same column values to every listed account in one statement
func (r *GormAccountRepository) UpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]any) (int64, error) {
	return updateByIDs(r.db.WithContext(ctx), &models.AccountModel{}, ids, fields)
}

// DeleteByIDs removes every listed account in one statement
func (r *GormAccountRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return deleteByIDs(r.db.WithContext(ctx), &models.AccountModel{}, ids)
}

// ExistsByCompanyName checks whether the agent already owns a company, ignoring case
func (r *GormAccountRepository) ExistsByCompanyName(ctx context.Context, referenceID, companyName string) (bool, error) {
	return exists(r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("reference_id = ? AND LOWER(company_name) = ?", referenceID, strings.ToLower(strings.TrimSpace(companyName))))
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter sales.AccountFilter) *gorm.DB {
	query = whereEq(query, "reference_id", filter.ReferenceID)
	query = whereEq(query, "tsm", filter.TSM)
	query = whereEq(query, "manager", filter.Manager)
	query = whereEq(query, "company_group", filter.CompanyGroup)
	query = whereEq(query, "type_client", filter.TypeClient)
	query = whereEq(query, "status", string(filter.Status))
	return whereSearch(query, filter.Search, "company_name", "contact_person", "email_address")
}

func accountsToDomain(rows []models.AccountModel) []sales.Account {
	accounts := make([]sales.Account, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	return accounts
}
