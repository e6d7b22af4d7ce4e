package inventory

import (
	"time"

	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create an inventory item.
// ItemCode is generated from the item name when empty.
type CreateItemRequest struct {
	ItemCode     string          `json:"item_code" binding:"max=50"`
	ItemName     string          `json:"item_name" binding:"required,max=200"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"max=100"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	SKU          string          `json:"sku" binding:"max=100"`
	Barcode      string          `json:"barcode" binding:"max=100"`
	IsService    bool            `json:"is_service"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	UserID       *uuid.UUID      `json:"userId"`
}

// UpdateItemRequest represents a request to update an inventory item
type UpdateItemRequest struct {
	ItemName     *string          `json:"item_name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category" binding:"omitempty,max=100"`
	Unit         *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	SKU          *string          `json:"sku" binding:"omitempty,max=100"`
	Barcode      *string          `json:"barcode" binding:"omitempty,max=100"`
	IsService    *bool            `json:"is_service"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	DiscountRate *decimal.Decimal `json:"discount_rate"`
	CurrentStock *decimal.Decimal `json:"current_stock"`
}

func (r *UpdateItemRequest) patch() inventory.ItemPatch {
	return inventory.ItemPatch{
		Name:         r.ItemName,
		Description:  r.Description,
		Category:     r.Category,
		Unit:         r.Unit,
		SKU:          r.SKU,
		Barcode:      r.Barcode,
		IsService:    r.IsService,
		CostPrice:    r.CostPrice,
		SellingPrice: r.SellingPrice,
		TaxRate:      r.TaxRate,
		DiscountRate: r.DiscountRate,
		CurrentStock: r.CurrentStock,
	}
}

// ListItemsFilter represents filter options for item listings
type ListItemsFilter struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	IsService *bool  `form:"is_service"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit"`
	SKU          string          `json:"sku,omitempty"`
	Barcode      string          `json:"barcode,omitempty"`
	IsService    bool            `json:"is_service"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ItemListResult is one page of items
type ItemListResult struct {
	Items    []ItemResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToItemResponse converts a domain item to its response DTO
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		ItemCode:     item.Code,
		ItemName:     item.Name,
		Description:  item.Description,
		Category:     item.Category,
		Unit:         item.Unit,
		SKU:          item.SKU,
		Barcode:      item.Barcode,
		IsService:    item.IsService,
		CostPrice:    item.CostPrice,
		SellingPrice: item.SellingPrice,
		TaxRate:      item.TaxRate,
		DiscountRate: item.DiscountRate,
		CurrentStock: item.CurrentStock,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
