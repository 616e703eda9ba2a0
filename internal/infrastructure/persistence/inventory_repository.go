package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements inventory.ItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of inventory items
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, int64, error) {
	var rows []models.InventoryItemModel
	total, err := listPage(r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}), filter),
		filter.Filter, InventorySortFields, "sku", &rows)
	if err != nil {
		return nil, 0, err
	}
	return itemsToDomain(rows), total, nil
}

// FindForReport returns every matching item grouped by warehouse
func (r *GormInventoryItemRepository) FindForReport(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, error) {
	var rows []models.InventoryItemModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}), filter).
		Order("warehouse ASC, sku ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(rows), nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	model := &models.InventoryItemModel{}
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates an item loaded at Version-1
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	model := &models.InventoryItemModel{}
	model.FromDomain(item)
	return saveWithLock(r.db.WithContext(ctx), model, item.ID, item.Version, "Inventory item")
}

// ExistsBySKU checks if a SKU is already stocked
func (r *GormInventoryItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return exists(r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))))
}

// CountLowStock counts stocked items at or below their reorder level
func (r *GormInventoryItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Where("quantity <= reorder_level AND status <> ?", inventory.ItemStatusDiscontinued).
		Count(&n).Error
	return n, err
}

func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter inventory.ItemFilter) *gorm.DB {
	query = whereEq(query, "warehouse", filter.Warehouse)
	query = whereEq(query, "category", filter.Category)
	query = whereEq(query, "status", string(filter.Status))
	if filter.LowStock {
		query = query.Where("quantity <= reorder_level AND status <> ?", inventory.ItemStatusDiscontinued)
	}
	return whereSearch(query, filter.Search, "sku", "name")
}

func itemsToDomain(rows []models.InventoryItemModel) []inventory.Item {
	items := make([]inventory.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}
