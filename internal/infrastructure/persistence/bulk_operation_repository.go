package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBulkOperationRepository implements bulk.OperationRepository using GORM
type GormBulkOperationRepository struct {
	db *gorm.DB
}

// NewGormBulkOperationRepository creates a new GormBulkOperationRepository
func NewGormBulkOperationRepository(db *gorm.DB) *GormBulkOperationRepository {
	return &GormBulkOperationRepository{db: db}
}

// FindByID finds a bulk operation by ID
func (r *GormBulkOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.Operation, error) {
	var model models.BulkOperationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns bulk operations with pagination and filtering
func (r *GormBulkOperationRepository) FindAll(ctx context.Context, filter bulk.OperationFilter) ([]bulk.Operation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BulkOperationModel{})
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.Target != nil {
		query = query.Where("target = ?", *filter.Target)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = whereEq(query, "actor", filter.Actor)
	query = wherePeriod(query, "started_at", filter.From, filter.To)

	var rows []models.BulkOperationModel
	total, err := listPage(query, filter.Filter, BulkOperationSortFields, "started_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	ops := make([]bulk.Operation, len(rows))
	for i := range rows {
		ops[i] = *rows[i].ToDomain()
	}
	return ops, total, nil
}

// Save saves a bulk operation (create or update)
func (r *GormBulkOperationRepository) Save(ctx context.Context, op *bulk.Operation) error {
	return r.db.WithContext(ctx).Save(models.BulkOperationModelFromDomain(op)).Error
}
