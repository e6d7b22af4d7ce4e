package invoicing

import (
	"fmt"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the aggregate root of the invoicing context.
// ID is the locally assigned sequence number; InvoiceID and UUID form the
// identity registered with the compliance authority and never change once set.
type Invoice struct {
	ID        string
	InvoiceID string
	UUID      string

	AccountID    uuid.UUID
	ClientID     uuid.UUID
	OrgProfileID string
	CreatorID    uuid.UUID
	ServiceIDs   []uuid.UUID

	Status        InvoiceStatus
	Name          string
	InvoiceDate   *time.Time
	InvoiceTime   string
	DeliveryDate  *time.Time
	Type          InvoiceType
	TypeCodeValue string
	TypeCodeName  string
	Currency      string
	TaxCategory   string
	TaxSchemeID   string
	PaymentMeans  string
	Note          string
	CustomID      string

	Subtotal            decimal.Decimal
	TotalDiscountAmount decimal.Decimal
	TaxPercentage       decimal.Decimal
	TotalTaxAmount      decimal.Decimal
	Total               decimal.Decimal
	PrepaidAmount       decimal.Decimal

	QRCode            string
	ErrorMessages     []string
	WarningMessages   []string
	AuthorityResponse []byte
	XMLLink           string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Services is populated when the invoice is loaded with its lines
	Services []*Service
}

// Header holds the caller-declared fields of a new invoice
type Header struct {
	AccountID     uuid.UUID
	ClientID      uuid.UUID
	CreatorID     uuid.UUID
	Name          string
	InvoiceDate   *time.Time
	DeliveryDate  *time.Time
	Type          InvoiceType
	Currency      string
	TaxCategory   string
	TaxSchemeID   string
	PaymentMeans  string
	Note          string
	CustomID      string
	TaxPercentage decimal.Decimal
	Discount      decimal.Decimal
	PrepaidAmount decimal.Decimal
}

// NewDraft creates an unsubmitted invoice. It has no identity until the
// authority accepts it and RecordSubmission is called.
func NewDraft(h Header, orgProfileID string, lines []*Service) *Invoice {
	now := time.Now()
	inv := &Invoice{
		AccountID:           h.AccountID,
		ClientID:            h.ClientID,
		CreatorID:           h.CreatorID,
		OrgProfileID:        orgProfileID,
		Status:              StatusDraft,
		Name:                h.Name,
		InvoiceDate:         h.InvoiceDate,
		DeliveryDate:        h.DeliveryDate,
		Type:                h.Type,
		Currency:            h.Currency,
		TaxCategory:         h.TaxCategory,
		TaxSchemeID:         h.TaxSchemeID,
		PaymentMeans:        h.PaymentMeans,
		Note:                h.Note,
		CustomID:            h.CustomID,
		TaxPercentage:       h.TaxPercentage,
		TotalDiscountAmount: valueobject.RoundMoney(h.Discount),
		PrepaidAmount:       valueobject.RoundMoney(h.PrepaidAmount),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	inv.SetLines(lines)
	return inv
}

// SetLines replaces the ordered line collection and recomputes totals
func (i *Invoice) SetLines(lines []*Service) {
	i.Services = lines
	i.ServiceIDs = make([]uuid.UUID, len(lines))
	for idx, l := range lines {
		i.ServiceIDs[idx] = l.ID
	}
	i.Recalculate()
}

// Recalculate derives subtotal, tax and total from the loaded lines.
// total == subtotal - discount + tax holds exactly after rounding.
func (i *Invoice) Recalculate() {
	i.Subtotal = valueobject.RoundMoney(SumTotals(i.Services))
	taxable := i.Subtotal.Sub(i.TotalDiscountAmount)
	i.TotalTaxAmount = valueobject.RoundMoney(valueobject.PercentOf(taxable, i.TaxPercentage))
	i.Total = valueobject.RoundMoney(taxable.Add(i.TotalTaxAmount))
}

// totalTolerance is the widest accepted gap between a declared and a computed total
var totalTolerance = decimal.New(1, -2)

// CheckDeclaredTotal rejects a caller-declared total that disagrees with the
// total computed from the lines. The computed total is the one persisted.
func (i *Invoice) CheckDeclaredTotal(declared decimal.Decimal) error {
	declared = valueobject.RoundMoney(declared)
	if declared.Sub(i.Total).Abs().GreaterThan(totalTolerance) {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Declared total %s does not match computed total %s", declared.StringFixed(2), i.Total.StringFixed(2)))
	}
	return nil
}

// PayableAmount is the total less any prepaid amount
func (i *Invoice) PayableAmount() decimal.Decimal {
	return valueobject.RoundMoney(i.Total.Sub(i.PrepaidAmount))
}

// IsSubmitted reports whether the authority identity has been assigned
func (i *Invoice) IsSubmitted() bool {
	return i.UUID != ""
}

// Submission is the accepted outcome of a create or update call to the authority
type Submission struct {
	Document        *Document
	QRCode          string
	Response        []byte
	ErrorMessages   []string
	WarningMessages []string
}

// RecordSubmission stamps the authority-accepted document onto the invoice and
// resets it to Draft. The authority identity is assigned only on first submission.
func (i *Invoice) RecordSubmission(s Submission) error {
	doc := s.Document
	if i.IsSubmitted() {
		if doc.UUID != i.UUID || doc.ID != i.InvoiceID {
			return shared.NewDomainError(shared.CodeInvalidInput, "Invoice identity cannot change after submission")
		}
	} else {
		i.ID = doc.ID
		i.InvoiceID = doc.ID
		i.UUID = doc.UUID
	}
	i.Status = StatusDraft
	i.InvoiceTime = doc.IssueTime
	i.TypeCodeValue = doc.InvoiceTypeCode.Value
	i.TypeCodeName = doc.InvoiceTypeCode.Name
	i.QRCode = s.QRCode
	i.AuthorityResponse = s.Response
	i.ErrorMessages = s.ErrorMessages
	i.WarningMessages = s.WarningMessages
	i.UpdatedAt = time.Now()
	return nil
}

// EnsureEditable returns Forbidden if the invoice can no longer be changed
func (i *Invoice) EnsureEditable() error {
	if !i.Status.CanEdit() {
		return shared.NewDomainError(shared.CodeForbidden, fmt.Sprintf("Invoice cannot be edited in status: %s", i.Status))
	}
	return nil
}

// EnsureDeletable returns Forbidden if the invoice has been reported or paid
func (i *Invoice) EnsureDeletable() error {
	if !i.Status.CanDelete() {
		return shared.NewDomainError(shared.CodeForbidden, "Reported invoices to Zatca can't be deleted")
	}
	return nil
}

// TransitionTo moves the invoice to the target status following the transition table.
// Any status other than Draft requires the authority QR payload.
func (i *Invoice) TransitionTo(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown invoice status: %q", string(target)))
	}
	if !i.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeForbidden,
			fmt.Sprintf("Invoice cannot move from %s to %s", i.Status, target))
	}
	if target != StatusDraft && i.QRCode == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invoice has no QR code from the authority")
	}
	i.Status = target
	i.UpdatedAt = time.Now()
	return nil
}

// Clone returns a copy that can be patched without touching the original.
// Line items are shared.
func (i *Invoice) Clone() *Invoice {
	c := *i
	c.ServiceIDs = append([]uuid.UUID(nil), i.ServiceIDs...)
	c.Services = append([]*Service(nil), i.Services...)
	c.ErrorMessages = append([]string(nil), i.ErrorMessages...)
	c.WarningMessages = append([]string(nil), i.WarningMessages...)
	return &c
}
