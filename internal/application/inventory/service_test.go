package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) FindForReport(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newItem(t *testing.T, qty, reorder int64) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem("sku-1", "Widget", "Manila", decimal.NewFromInt(qty), decimal.NewFromInt(reorder), shared.ParseAmount("12.50"))
	require.NoError(t, err)
	return item
}

func TestCreate(t *testing.T) {
	repo := new(MockItemRepository)
	svc := NewService(repo, nil, zap.NewNop())
	repo.On("ExistsBySKU", mock.Anything, "SKU-9").Return(false, nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Item")).Return(nil).Once()

	resp, err := svc.Create(context.Background(), CreateItemRequest{
		SKU:          " sku-9 ",
		Name:         "Bolt",
		Category:     "Hardware",
		Warehouse:    "Cebu",
		Quantity:     decimal.NewFromInt(4),
		ReorderLevel: decimal.NewFromInt(10),
		UnitCost:     shared.ParseAmount(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-9", resp.SKU)
	assert.Equal(t, "Low Stock", resp.Status)
	assert.True(t, resp.LowStock)
	assert.Equal(t, "8", resp.StockValue.String())
}

func TestCreate_DuplicateSKU(t *testing.T) {
	repo := new(MockItemRepository)
	svc := NewService(repo, nil, zap.NewNop())
	repo.On("ExistsBySKU", mock.Anything, "SKU-1").Return(true, nil).Once()

	_, err := svc.Create(context.Background(), CreateItemRequest{
		SKU: "sku-1", Name: "Widget", Warehouse: "Manila",
	})
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestAdjust(t *testing.T) {
	t.Run("refreshes status and logs", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		repo := new(MockItemRepository)
		svc := NewService(repo, nil, zap.New(core))
		item := newItem(t, 20, 5)
		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil).Once()
		repo.On("SaveWithLock", mock.Anything, item).Return(nil).Once()

		resp, err := svc.Adjust(context.Background(), item.ID, AdjustStockRequest{Delta: decimal.NewFromInt(-20), Reason: "cycle count"})
		require.NoError(t, err)
		assert.Equal(t, "Out of Stock", resp.Status)
		require.Equal(t, 1, logs.FilterMessage("Stock adjusted").Len())
		assert.Equal(t, "cycle count", logs.All()[0].ContextMap()["reason"])
	})

	t.Run("cannot go negative", func(t *testing.T) {
		repo := new(MockItemRepository)
		svc := NewService(repo, nil, zap.NewNop())
		item := newItem(t, 2, 5)
		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil).Once()

		_, err := svc.Adjust(context.Background(), item.ID, AdjustStockRequest{Delta: decimal.NewFromInt(-3)})
		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("discontinued", func(t *testing.T) {
		repo := new(MockItemRepository)
		svc := NewService(repo, nil, zap.NewNop())
		item := newItem(t, 2, 5)
		item.Discontinue()
		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil).Once()

		_, err := svc.Adjust(context.Background(), item.ID, AdjustStockRequest{Delta: decimal.NewFromInt(1)})
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestList_LowStockFilter(t *testing.T) {
	repo := new(MockItemRepository)
	svc := NewService(repo, nil, zap.NewNop())
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f inventory.ItemFilter) bool {
		return f.LowStock && f.Warehouse == "Manila"
	})).Return([]inventory.Item{*newItem(t, 1, 5)}, int64(1), nil).Once()

	page, err := svc.List(context.Background(), ListQuery{Warehouse: "Manila", LowStock: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].LowStock)
}
