// Package inventory serves the stock screens.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
)

// ListQuery filters the item listing
type ListQuery struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search    string `form:"search"`
	Warehouse string `form:"warehouse"`
	Category  string `form:"category"`
	Status    string `form:"status"`
	LowStock  bool   `form:"low_stock"`
}

// CreateItemRequest adds an item to a warehouse
type CreateItemRequest struct {
	SKU          string          `json:"sku" binding:"required,max=64"`
	Name         string          `json:"name" binding:"required,max=255"`
	Category     string          `json:"category" binding:"max=100"`
	Warehouse    string          `json:"warehouse" binding:"required,max=100"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorderlevel"`
	UnitCost     shared.Amount   `json:"unitcost"`
}

// AdjustStockRequest changes the on-hand quantity by a signed delta
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"max=255"`
}

// ItemResponse is the API view of an item
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Warehouse    string          `json:"warehouse"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorderlevel"`
	UnitCost     shared.Amount   `json:"unitcost"`
	StockValue   decimal.Decimal `json:"stockvalue"`
	Status       string          `json:"status"`
	LowStock     bool            `json:"lowstock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item
func ToItemResponse(i *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		SKU:          i.SKU,
		Name:         i.Name,
		Category:     i.Category,
		Warehouse:    i.Warehouse,
		Quantity:     i.Quantity,
		ReorderLevel: i.ReorderLevel,
		UnitCost:     i.UnitCost,
		StockValue:   i.StockValue(),
		Status:       string(i.Status),
		LowStock:     i.IsLowStock(),
		UpdatedAt:    i.UpdatedAt,
	}
}

// ReportInvalidator drops cached dashboards after stock changes
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles inventory items
type Service struct {
	items       inventory.ItemRepository
	invalidator ReportInvalidator
	logger      *zap.Logger
}

// NewService creates an inventory Service. invalidator may be nil.
func NewService(items inventory.ItemRepository, invalidator ReportInvalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, invalidator: invalidator, logger: logger}
}

// List returns one page of items
func (s *Service) List(ctx context.Context, q ListQuery) (shared.Paginated[ItemResponse], error) {
	filter := inventory.ItemFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			OrderBy:  q.OrderBy,
			OrderDir: q.OrderDir,
			Search:   q.Search,
		}.Normalize(),
		Warehouse: q.Warehouse,
		Category:  q.Category,
		Status:    inventory.ItemStatus(q.Status),
		LowStock:  q.LowStock,
	}
	items, total, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ItemResponse]{}, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Get returns one item
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Create adds an item with a unique SKU
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := inventory.NewItem(req.SKU, req.Name, req.Warehouse, req.Quantity, req.ReorderLevel, req.UnitCost)
	if err != nil {
		return nil, err
	}
	exists, err := s.items.ExistsBySKU(ctx, item.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("SKU already exists")
	}
	item.Category = req.Category

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToItemResponse(item)
	return &response, nil
}

// Adjust changes the on-hand quantity. Stock never goes below zero.
func (s *Service) Adjust(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == inventory.ItemStatusDiscontinued {
		return nil, shared.ErrInvalidState.WithMessage("Item is discontinued")
	}
	if err := item.Adjust(req.Delta); err != nil {
		return nil, err
	}
	if err := s.items.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Stock adjusted",
		zap.String("sku", item.SKU),
		zap.String("delta", req.Delta.String()),
		zap.String("reason", req.Reason),
		zap.String("quantity", item.Quantity.String()),
	)
	s.invalidate(ctx)

	response := ToItemResponse(item)
	return &response, nil
}

// CountLowStock returns how many items are at or below their reorder level
func (s *Service) CountLowStock(ctx context.Context) (int64, error) {
	return s.items.CountLowStock(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate report cache", zap.Error(err))
	}
}
