package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the stocking state of an item
type ItemStatus string

const (
	ItemStatusInStock      ItemStatus = "In Stock"
	ItemStatusLowStock     ItemStatus = "Low Stock"
	ItemStatusOutOfStock   ItemStatus = "Out of Stock"
	ItemStatusDiscontinued ItemStatus = "Discontinued"
)

// Item is one SKU held in a warehouse
type Item struct {
	shared.VersionedEntity
	SKU          string
	Name         string
	Category     string
	Warehouse    string
	Quantity     decimal.Decimal
	ReorderLevel decimal.Decimal
	UnitCost     shared.Amount
	Status       ItemStatus
}

// NewItem creates an item and derives its stock status
func NewItem(sku, name, warehouse string, quantity, reorderLevel decimal.Decimal, unitCost shared.Amount) (*Item, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reorder level cannot be negative")
	}
	item := &Item{
		VersionedEntity: shared.NewVersionedEntity(),
		SKU:             strings.ToUpper(strings.TrimSpace(sku)),
		Name:            strings.TrimSpace(name),
		Warehouse:       strings.TrimSpace(warehouse),
		Quantity:        quantity,
		ReorderLevel:    reorderLevel,
		UnitCost:        unitCost,
	}
	item.refreshStatus()
	return item, nil
}

// IsLowStock reports whether quantity is at or below the reorder level
func (i *Item) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// StockValue is quantity times unit cost
func (i *Item) StockValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost.Decimal())
}

// Adjust changes the on-hand quantity by delta
func (i *Item) Adjust(delta decimal.Decimal) error {
	next := i.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	}
	i.Quantity = next
	i.refreshStatus()
	i.Touch()
	return nil
}

// Discontinue takes the item out of circulation
func (i *Item) Discontinue() {
	i.Status = ItemStatusDiscontinued
	i.Touch()
}

func (i *Item) refreshStatus() {
	if i.Status == ItemStatusDiscontinued {
		return
	}
	switch {
	case i.Quantity.IsZero():
		i.Status = ItemStatusOutOfStock
	case i.IsLowStock():
		i.Status = ItemStatusLowStock
	default:
		i.Status = ItemStatusInStock
	}
}

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.Filter
	Warehouse string
	Category  string
	Status    ItemStatus
	LowStock  bool
}

// ItemRepository persists inventory items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, int64, error)
	FindForReport(ctx context.Context, filter ItemFilter) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	SaveWithLock(ctx context.Context, item *Item) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	CountLowStock(ctx context.Context) (int64, error)
}
