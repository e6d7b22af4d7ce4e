package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	Keyword   string
	Category  string
	IsService *bool
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ItemRepository defines the interface for inventory item persistence
type ItemRepository interface {
	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByCode finds an item by its unique item code
	FindByCode(ctx context.Context, code string) (*Item, error)

	// FindAll returns a page of items and the total count
	FindAll(ctx context.Context, filter ItemFilter) ([]*Item, int64, error)

	// CountByCodePrefix counts items whose code starts with prefix
	CountByCodePrefix(ctx context.Context, prefix string) (int64, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically subtracts quantity when at least quantity is on hand.
	// It returns false without changing anything when stock is insufficient.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (bool, error)

	// IncrementStock atomically adds quantity
	IncrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
}
