package inventory

import (
	"testing"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("requires name and unit", func(t *testing.T) {
		_, err := NewItem("", "Pencil", "", false, decimal.Zero, uuid.New())
		assert.ErrorIs(t, err, shared.ErrMissingFields)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewItem("", "Pencil", "PCE", false, decimal.NewFromInt(-1), uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("service items carry no stock", func(t *testing.T) {
		item, err := NewItem("", "Consulting", "HUR", true, decimal.NewFromInt(5), uuid.New())
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())
	})
}

func TestItem_HasStock(t *testing.T) {
	item, err := NewItem("PEN0001", "Pen", "PCE", false, decimal.NewFromInt(3), uuid.New())
	require.NoError(t, err)

	assert.True(t, item.HasStock(decimal.NewFromInt(3)))
	assert.False(t, item.HasStock(decimal.NewFromInt(4)))

	err = item.InsufficientStockError(decimal.NewFromInt(4))
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Available: 3, Requested: 4")
	assert.Contains(t, err.Error(), "PEN0001")
}

func TestItem_Apply(t *testing.T) {
	item, err := NewItem("PEN0001", "Pen", "PCE", false, decimal.NewFromInt(3), uuid.New())
	require.NoError(t, err)

	name := "Blue Pen"
	stock := decimal.NewFromInt(10)
	require.NoError(t, item.Apply(ItemPatch{Name: &name, CurrentStock: &stock}))
	assert.Equal(t, "Blue Pen", item.Name)
	assert.True(t, item.CurrentStock.Equal(stock))

	negative := decimal.NewFromInt(-2)
	assert.ErrorIs(t, item.Apply(ItemPatch{CurrentStock: &negative}), shared.ErrInvalidInput)

	empty := " "
	assert.ErrorIs(t, item.Apply(ItemPatch{Unit: &empty}), shared.ErrInvalidInput)
}

func TestCodePrefix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"blue ballpoint pen", "BBP"},
		{"office chair ergonomic deluxe", "OCE"},
		{"laptop", "L"},
		{"123 456", "ITM"},
		{"", "ITM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodePrefix(tt.name))
		})
	}

	assert.Equal(t, "BBP0007", FormatCode("BBP", 7))
}
