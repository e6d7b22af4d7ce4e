package invoicing

import (
	"fmt"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoicePatch lists every field an update may change. A nil field is left
// untouched; a non-nil field replaces the stored value.
type InvoicePatch struct {
	AccountID     *uuid.UUID
	ClientID      *uuid.UUID
	Name          *string
	InvoiceDate   *time.Time
	DeliveryDate  *time.Time
	Type          *InvoiceType
	Currency      *string
	TaxCategory   *string
	TaxSchemeID   *string
	PaymentMeans  *string
	Note          *string
	CustomID      *string
	TaxPercentage *decimal.Decimal
	Discount      *decimal.Decimal
	PrepaidAmount *decimal.Decimal

	// Lines, when set, is the complete desired line collection
	Lines *[]ServiceInput
}

// ApplyTo writes the declared fields onto the invoice, field by field.
// Totals are recomputed by the caller once the line collection is final.
func (p *InvoicePatch) ApplyTo(inv *Invoice) {
	if p.AccountID != nil {
		inv.AccountID = *p.AccountID
	}
	if p.ClientID != nil {
		inv.ClientID = *p.ClientID
	}
	if p.Name != nil {
		inv.Name = *p.Name
	}
	if p.InvoiceDate != nil {
		inv.InvoiceDate = p.InvoiceDate
	}
	if p.DeliveryDate != nil {
		inv.DeliveryDate = p.DeliveryDate
	}
	if p.Type != nil {
		inv.Type = *p.Type
	}
	if p.Currency != nil {
		inv.Currency = *p.Currency
	}
	if p.TaxCategory != nil {
		inv.TaxCategory = *p.TaxCategory
	}
	if p.TaxSchemeID != nil {
		inv.TaxSchemeID = *p.TaxSchemeID
	}
	if p.PaymentMeans != nil {
		inv.PaymentMeans = *p.PaymentMeans
	}
	if p.Note != nil {
		inv.Note = *p.Note
	}
	if p.CustomID != nil {
		inv.CustomID = *p.CustomID
	}
	if p.TaxPercentage != nil {
		inv.TaxPercentage = *p.TaxPercentage
	}
	if p.Discount != nil {
		inv.TotalDiscountAmount = valueobject.RoundMoney(*p.Discount)
	}
	if p.PrepaidAmount != nil {
		inv.PrepaidAmount = valueobject.RoundMoney(*p.PrepaidAmount)
	}
}

// LineUpdate is a retained line together with its requested values
type LineUpdate struct {
	Line             *Service
	Input            ServiceInput
	PreviousQuantity decimal.Decimal
	PreviousItemCode string
}

// LineDiff classifies requested lines against the stored ones
type LineDiff struct {
	Inserts  []ServiceInput
	Updates  []LineUpdate
	Removals []*Service
}

// DiffLines compares the requested line collection with the existing one.
// Lines without an id are inserts, lines whose id matches an existing line are
// updates, and existing lines absent from the request are removals.
func DiffLines(existing []*Service, requested []ServiceInput) (LineDiff, error) {
	var diff LineDiff

	byID := make(map[uuid.UUID]*Service, len(existing))
	for _, s := range existing {
		byID[s.ID] = s
	}

	kept := make(map[uuid.UUID]bool, len(requested))
	for _, in := range requested {
		if in.ID == nil {
			diff.Inserts = append(diff.Inserts, in)
			continue
		}
		line, ok := byID[*in.ID]
		if !ok {
			return LineDiff{}, shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("Service %s does not belong to this invoice", in.ID.String()))
		}
		if kept[line.ID] {
			return LineDiff{}, shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("Service %s is listed more than once", in.ID.String()))
		}
		kept[line.ID] = true
		diff.Updates = append(diff.Updates, LineUpdate{
			Line:             line,
			Input:            in,
			PreviousQuantity: line.Quantity,
			PreviousItemCode: line.ItemCode,
		})
	}

	for _, s := range existing {
		if !kept[s.ID] {
			diff.Removals = append(diff.Removals, s)
		}
	}
	return diff, nil
}
