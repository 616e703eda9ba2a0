package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuotationRepository implements sales.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of quotations
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter sales.QuotationFilter) ([]sales.Quotation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{})
	query = whereEq(query, "reference_id", filter.ReferenceID)
	query = whereEq(query, "status", string(filter.Status))
	query = whereSearch(query, filter.Search, "quotation_number", "company_name")

	var rows []models.QuotationModel
	total, err := listPage(query, filter.Filter, QuotationSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	quotations := make([]sales.Quotation, len(rows))
	for i := range rows {
		quotations[i] = *rows[i].ToDomain()
	}
	return quotations, total, nil
}

// Save creates or updates a quotation
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *sales.Quotation) error {
	model := &models.QuotationModel{}
	model.FromDomain(quotation)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a quotation loaded at Version-1
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *sales.Quotation) error {
	model := &models.QuotationModel{}
	model.FromDomain(quotation)
	return saveWithLock(r.db.WithContext(ctx), model, quotation.ID, quotation.Version, "Quotation")
}

// ExistsByNumber checks if a quotation number is taken
func (r *GormQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.QuotationModel{}).Where("quotation_number = ?", number))
}
