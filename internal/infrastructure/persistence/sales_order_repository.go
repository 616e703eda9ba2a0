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

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by its ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of sales orders
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter sales.SalesOrderFilter) ([]sales.SalesOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalesOrderModel{})
	query = whereEq(query, "reference_id", filter.ReferenceID)
	query = whereEq(query, "status", string(filter.Status))
	query = whereSearch(query, filter.Search, "so_number", "company_name", "quotation_number")

	var rows []models.SalesOrderModel
	total, err := listPage(query, filter.Filter, SalesOrderSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]sales.SalesOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Save creates or updates a sales order
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.SalesOrder) error {
	model := &models.SalesOrderModel{}
	model.FromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a sales order loaded at Version-1
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.SalesOrder) error {
	model := &models.SalesOrderModel{}
	model.FromDomain(order)
	return saveWithLock(r.db.WithContext(ctx), model, order.ID, order.Version, "Sales order")
}

// ExistsByNumber checks if an SO number is taken
func (r *GormSalesOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Where("so_number = ?", number))
}
