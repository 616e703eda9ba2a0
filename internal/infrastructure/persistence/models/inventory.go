package models

import (
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
)

// InventoryItemModel is the persistence model for stock items.
type InventoryItemModel struct {
	VersionedModel
	SKU          string               `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Name         string               `gorm:"type:varchar(255);not null"`
	Category     string               `gorm:"type:varchar(100);index"`
	Warehouse    string               `gorm:"type:varchar(100);not null;index"`
	Quantity     decimal.Decimal      `gorm:"type:numeric(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal      `gorm:"type:numeric(18,4);not null;default:0"`
	UnitCost     shared.Amount        `gorm:"type:numeric(18,2);not null;default:0"`
	Status       inventory.ItemStatus `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *InventoryItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		VersionedEntity: m.ToVersioned(),
		SKU:             m.SKU,
		Name:            m.Name,
		Category:        m.Category,
		Warehouse:       m.Warehouse,
		Quantity:        m.Quantity,
		ReorderLevel:    m.ReorderLevel,
		UnitCost:        m.UnitCost,
		Status:          m.Status,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *InventoryItemModel) FromDomain(i *inventory.Item) {
	m.FromDomainVersioned(i.VersionedEntity)
	m.SKU = i.SKU
	m.Name = i.Name
	m.Category = i.Category
	m.Warehouse = i.Warehouse
	m.Quantity = i.Quantity
	m.ReorderLevel = i.ReorderLevel
	m.UnitCost = i.UnitCost
	m.Status = i.Status
}
