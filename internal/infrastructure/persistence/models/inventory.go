package models

import (
	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the inventory Item entity.
type InventoryItemModel struct {
	BaseModel
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	Category     string          `gorm:"type:varchar(100);index"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	SKU          string          `gorm:"type:varchar(100)"`
	Barcode      string          `gorm:"type:varchar(100)"`
	IsService    bool            `gorm:"not null;default:false"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatorID    uuid.UUID       `gorm:"type:varchar(36)"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain Item entity.
func (m *InventoryItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		BaseEntity:   m.BaseModel.ToDomain(),
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		Category:     m.Category,
		Unit:         m.Unit,
		SKU:          m.SKU,
		Barcode:      m.Barcode,
		IsService:    m.IsService,
		CostPrice:    m.CostPrice,
		SellingPrice: m.SellingPrice,
		TaxRate:      m.TaxRate,
		DiscountRate: m.DiscountRate,
		CurrentStock: m.CurrentStock,
		CreatorID:    m.CreatorID,
	}
}

// FromDomain populates the persistence model from a domain Item entity.
func (m *InventoryItemModel) FromDomain(i *inventory.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Code = i.Code
	m.Name = i.Name
	m.Description = i.Description
	m.Category = i.Category
	m.Unit = i.Unit
	m.SKU = i.SKU
	m.Barcode = i.Barcode
	m.IsService = i.IsService
	m.CostPrice = i.CostPrice
	m.SellingPrice = i.SellingPrice
	m.TaxRate = i.TaxRate
	m.DiscountRate = i.DiscountRate
	m.CurrentStock = i.CurrentStock
	m.CreatorID = i.CreatorID
}

// InventoryItemModelFromDomain creates a persistence model from a domain Item entity.
func InventoryItemModelFromDomain(i *inventory.Item) *InventoryItemModel {
	m := &InventoryItemModel{}
	m.FromDomain(i)
	return m
}
