package invoicing

import (
	"strings"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUnitCode is used when a line does not declare a unit of measure
const DefaultUnitCode = "PCE"

// ServiceInput carries the caller-supplied fields of a line item.
// ID is set only for lines that already belong to an invoice.
type ServiceInput struct {
	ID                 *uuid.UUID
	Name               string
	Description        string
	UnitPrice          decimal.Decimal
	UnitCode           string
	ItemCode           string
	Quantity           decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// Service is one billable line of an invoice, optionally backed by an inventory item
type Service struct {
	shared.BaseEntity
	InvoiceID            string // local invoice id, empty until the invoice is persisted
	Position             int
	Name                 string
	Description          string
	UnitPrice            decimal.Decimal
	UnitCode             string
	ItemCode             string
	Quantity             decimal.Decimal
	PriceWithoutDiscount decimal.Decimal
	DiscountPercentage   decimal.Decimal
	DiscountAmount       decimal.Decimal
	TotalPrice           decimal.Decimal
	CreatorID            uuid.UUID
}

// NewService creates a line item and computes its derived amounts
func NewService(input ServiceInput, creatorID uuid.UUID) (*Service, error) {
	s := &Service{
		BaseEntity: shared.NewBaseEntity(),
		CreatorID:  creatorID,
	}
	if err := s.apply(input); err != nil {
		return nil, err
	}
	return s, nil
}

// Revise replaces the caller-supplied fields of an existing line and recomputes amounts
func (s *Service) Revise(input ServiceInput) error {
	if err := s.apply(input); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Service) apply(input ServiceInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return shared.NewDomainError(shared.CodeMissingFields, "Service name is required")
	}
	if !input.Quantity.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Service quantity must be positive")
	}
	if input.UnitPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Service unit price cannot be negative")
	}
	if input.DiscountPercentage.IsNegative() || input.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Service discount percentage must be between 0 and 100")
	}

	s.Name = input.Name
	s.Description = input.Description
	s.UnitPrice = input.UnitPrice
	s.UnitCode = input.UnitCode
	if s.UnitCode == "" {
		s.UnitCode = DefaultUnitCode
	}
	s.ItemCode = strings.TrimSpace(input.ItemCode)
	s.Quantity = input.Quantity
	s.DiscountPercentage = input.DiscountPercentage
	s.recalculate()
	return nil
}

// recalculate derives the discount and total amounts.
// TotalPrice is computed from the unrounded gross so that
// TotalPrice == round(unitPrice*quantity*(1 - discount%/100)).
func (s *Service) recalculate() {
	gross := s.UnitPrice.Mul(s.Quantity)
	discount := valueobject.PercentOf(gross, s.DiscountPercentage)
	s.PriceWithoutDiscount = valueobject.RoundMoney(gross)
	s.DiscountAmount = valueobject.RoundMoney(discount)
	s.TotalPrice = valueobject.RoundMoney(gross.Sub(discount))
}

// HasInventoryItem reports whether the line references an inventory item
func (s *Service) HasInventoryItem() bool {
	return s.ItemCode != ""
}

// SumTotals returns the sum of line totals
func SumTotals(lines []*Service) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}
