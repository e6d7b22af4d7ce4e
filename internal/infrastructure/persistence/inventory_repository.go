package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds an inventory item by its item code
func (r *GormInventoryItemRepository) FindByCode(ctx context.Context, code string) (*inventory.Item, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of items, ordered by code unless the filter
// names a whitelisted sort column
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItemModel{})
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(sku) LIKE ?", like, like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsService != nil {
		query = query.Where("is_service = ?", *filter.IsService)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	var rows []models.InventoryItemModel
	order := orderClause(filter.SortBy, filter.SortOrder, InventoryItemSortFields, "code ASC")
	if err := query.Order(order).Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*inventory.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, total, nil
}

// CountByCodePrefix counts items whose code starts with prefix
func (r *GormInventoryItemRepository) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Where("code LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// Save creates or updates an inventory item; a duplicate code is a conflict
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	model := models.InventoryItemModelFromDomain(item)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes an inventory item
func (r *GormInventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock subtracts quantity in a single conditional UPDATE so concurrent
// reservations serialize on the row. It reports false when stock is insufficient.
func (r *GormInventoryItemRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Where("id = ? AND current_stock >= ?", id, quantity).
		Updates(map[string]any{
			"current_stock": gorm.Expr("current_stock - ?", quantity),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementStock adds quantity in a single UPDATE
func (r *GormInventoryItemRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_stock": gorm.Expr("current_stock + ?", quantity),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.ItemRepository = (*GormInventoryItemRepository)(nil)
