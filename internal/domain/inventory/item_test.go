package inventory

import (
	"testing"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int64
		reorder    int64
		wantStatus ItemStatus
	}{
		{name: "in stock", quantity: 50, reorder: 10, wantStatus: ItemStatusInStock},
		{name: "at reorder level", quantity: 10, reorder: 10, wantStatus: ItemStatusLowStock},
		{name: "empty", quantity: 0, reorder: 10, wantStatus: ItemStatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewItem("sku-1", "Cable", "Main", decimal.NewFromInt(tt.quantity), decimal.NewFromInt(tt.reorder), shared.ParseAmount(2))
			require.NoError(t, err)
			assert.Equal(t, "SKU-1", item.SKU)
			assert.Equal(t, tt.wantStatus, item.Status)
		})
	}

	_, err := NewItem("", "Cable", "Main", decimal.Zero, decimal.Zero, shared.ZeroAmount)
	assert.Error(t, err)

	_, err = NewItem("S", "Cable", "Main", decimal.NewFromInt(-1), decimal.Zero, shared.ZeroAmount)
	assert.Error(t, err)
}

func TestItem_Adjust(t *testing.T) {
	item, err := NewItem("S", "Cable", "Main", decimal.NewFromInt(5), decimal.NewFromInt(2), shared.ParseAmount("1.5"))
	require.NoError(t, err)

	require.NoError(t, item.Adjust(decimal.NewFromInt(-3)))
	assert.Equal(t, ItemStatusLowStock, item.Status)
	assert.Equal(t, 2, item.Version)
	assert.True(t, item.StockValue().Equal(decimal.NewFromInt(3)))

	err = item.Adjust(decimal.NewFromInt(-10))
	assert.Error(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(2)))

	item.Discontinue()
	require.NoError(t, item.Adjust(decimal.NewFromInt(-2)))
	assert.Equal(t, ItemStatusDiscontinued, item.Status)
}
