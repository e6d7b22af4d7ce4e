package inventory

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultUnit is the unit of measure used when none is given
const DefaultUnit = "PCE"

// defaultCodePrefix is used when an item name yields no initials
const defaultCodePrefix = "ITM"

// Item is a sellable good or service tracked in the catalogue.
// CurrentStock is never negative for non-service items; service items carry no stock.
type Item struct {
	shared.BaseEntity
	Code         string
	Name         string
	Description  string
	Category     string
	Unit         string
	SKU          string
	Barcode      string
	IsService    bool
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
	CurrentStock decimal.Decimal
	CreatorID    uuid.UUID
}

// NewItem creates an inventory item
func NewItem(code, name, unit string, isService bool, stock decimal.Decimal, creatorID uuid.UUID) (*Item, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if name == "" || unit == "" {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "item_name and unit are required")
	}
	if stock.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "current_stock cannot be negative")
	}
	if isService {
		stock = decimal.Zero
	}
	return &Item{
		BaseEntity:   shared.NewBaseEntity(),
		Code:         strings.TrimSpace(code),
		Name:         name,
		Unit:         unit,
		IsService:    isService,
		CurrentStock: stock,
		CreatorID:    creatorID,
	}, nil
}

// HasStock reports whether quantity can be taken from the item
func (i *Item) HasStock(quantity decimal.Decimal) bool {
	return i.CurrentStock.GreaterThanOrEqual(quantity)
}

// InsufficientStockError describes a refused stock reservation
func (i *Item) InsufficientStockError(requested decimal.Decimal) error {
	return shared.NewDomainError(shared.CodeInsufficientStock, fmt.Sprintf(
		"Insufficient stock for %s ItemCode: %s. Available: %s, Requested: %s",
		i.Name, i.Code, i.CurrentStock.String(), requested.String()))
}

// ItemPatch lists the item fields an update may change
type ItemPatch struct {
	Name         *string
	Description  *string
	Category     *string
	Unit         *string
	SKU          *string
	Barcode      *string
	IsService    *bool
	CostPrice    *decimal.Decimal
	SellingPrice *decimal.Decimal
	TaxRate      *decimal.Decimal
	DiscountRate *decimal.Decimal
	CurrentStock *decimal.Decimal
}

// Apply writes the declared fields onto the item
func (i *Item) Apply(p ItemPatch) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return shared.NewDomainError(shared.CodeInvalidInput, "item_name cannot be empty")
		}
		i.Name = strings.TrimSpace(*p.Name)
	}
	if p.Unit != nil {
		if strings.TrimSpace(*p.Unit) == "" {
			return shared.NewDomainError(shared.CodeInvalidInput, "unit cannot be empty")
		}
		i.Unit = strings.TrimSpace(*p.Unit)
	}
	if p.CurrentStock != nil {
		if p.CurrentStock.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "current_stock cannot be negative")
		}
		i.CurrentStock = *p.CurrentStock
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.SKU != nil {
		i.SKU = *p.SKU
	}
	if p.Barcode != nil {
		i.Barcode = *p.Barcode
	}
	if p.IsService != nil {
		i.IsService = *p.IsService
	}
	if p.CostPrice != nil {
		i.CostPrice = *p.CostPrice
	}
	if p.SellingPrice != nil {
		i.SellingPrice = *p.SellingPrice
	}
	if p.TaxRate != nil {
		i.TaxRate = *p.TaxRate
	}
	if p.DiscountRate != nil {
		i.DiscountRate = *p.DiscountRate
	}
	if i.IsService {
		i.CurrentStock = decimal.Zero
	}
	i.Touch()
	return nil
}

// CodePrefix derives an item-code prefix from the upper-cased initials of
// the first three words of name. Names without letters yield "ITM".
func CodePrefix(name string) string {
	upper := cases.Upper(language.Und)
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) && r < unicode.MaxASCII {
				b.WriteString(upper.String(string(r)))
				break
			}
		}
		if b.Len() == 3 {
			break
		}
	}
	if b.Len() == 0 {
		return defaultCodePrefix
	}
	return b.String()
}

// FormatCode builds an item code from a prefix and a sequence number
func FormatCode(prefix string, seq int64) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}
