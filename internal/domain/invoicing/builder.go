package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCurrency is the document currency when the invoice declares none
	DefaultCurrency = "SAR"
	// TaxCurrency is the currency in which tax totals are reported
	TaxCurrency = "SAR"
	// DefaultTaxSchemeID is the tax scheme used when the invoice declares none
	DefaultTaxSchemeID = "VAT"

	issueDateLayout = "2006-01-02"
	issueTimeLayout = "15:04:05"
)

// RiyadhTime is the authority's local time zone (UTC+3, no daylight saving)
var RiyadhTime = time.FixedZone("AST", 3*60*60)

// BuildMode selects whether a document gets a new identity or carries one forward
type BuildMode string

const (
	BuildModeNew    BuildMode = "new"
	BuildModeUpdate BuildMode = "update"
)

// SequenceSource gives the builder read access to document numbering
type SequenceSource interface {
	// NextInvoiceNumber returns the next free local invoice id
	NextInvoiceNumber(ctx context.Context) (string, error)

	// NextCounterValue returns the next invoice counter value
	NextCounterValue(ctx context.Context) (int64, error)

	// CounterValue returns the counter value recorded for an invoice
	CounterValue(ctx context.Context, invoiceID string) (int64, error)
}

// BuildInput is everything the builder reads to produce a document
type BuildInput struct {
	Mode         BuildMode
	Invoice      *Invoice
	Client       *partner.Client
	Organization *organization.Profile
}

// Builder assembles tax documents from business records
type Builder struct {
	sequences SequenceSource
	now       func() time.Time
	newUUID   func() uuid.UUID
	location  *time.Location
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithClock sets the time source used for issue date and time
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// WithUUIDGenerator sets the generator of new document uuids
func WithUUIDGenerator(gen func() uuid.UUID) BuilderOption {
	return func(b *Builder) {
		b.newUUID = gen
	}
}

// WithLocation sets the time zone of issue date and time
func WithLocation(loc *time.Location) BuilderOption {
	return func(b *Builder) {
		b.location = loc
	}
}

// NewBuilder creates a document builder
func NewBuilder(sequences SequenceSource, opts ...BuilderOption) *Builder {
	b := &Builder{
		sequences: sequences,
		now:       time.Now,
		newUUID:   uuid.New,
		location:  RiyadhTime,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the document for the invoice. In BuildModeNew the invoice
// must not have an authority identity yet and a new id, uuid and counter value
// are allocated; in BuildModeUpdate the existing ones are carried forward.
func (b *Builder) Build(ctx context.Context, in BuildInput) (*Document, error) {
	inv := in.Invoice
	if inv == nil || in.Client == nil || in.Organization == nil {
		return nil, fmt.Errorf("builder: invoice, client and organization are required")
	}

	typeCode, err := inv.Type.Code()
	if err != nil {
		return nil, err
	}

	doc := &Document{InvoiceTypeCode: typeCode}
	switch in.Mode {
	case BuildModeNew:
		if inv.IsSubmitted() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice already has an authority identity")
		}
		if doc.ID, err = b.sequences.NextInvoiceNumber(ctx); err != nil {
			return nil, fmt.Errorf("allocate invoice number: %w", err)
		}
		if doc.InvoiceCounterValue, err = b.sequences.NextCounterValue(ctx); err != nil {
			return nil, fmt.Errorf("allocate counter value: %w", err)
		}
		doc.UUID = b.newUUID().String()
	case BuildModeUpdate:
		if !inv.IsSubmitted() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice has no authority identity to update")
		}
		doc.ID = inv.InvoiceID
		doc.UUID = inv.UUID
		if doc.InvoiceCounterValue, err = b.sequences.CounterValue(ctx, inv.InvoiceID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeInternal,
					fmt.Sprintf("No counter value recorded for invoice %s", inv.InvoiceID))
			}
			return nil, fmt.Errorf("load counter value: %w", err)
		}
	default:
		return nil, fmt.Errorf("builder: unknown mode %q", in.Mode)
	}

	now := b.now().In(b.location)
	doc.IssueDate = now.Format(issueDateLayout)
	doc.IssueTime = now.Format(issueTimeLayout)

	currency := inv.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	taxScheme := inv.TaxSchemeID
	if taxScheme == "" {
		taxScheme = DefaultTaxSchemeID
	}
	category := TaxCategory{
		ID:        taxCategoryCode(inv.TaxCategory),
		Percent:   inv.TaxPercentage.StringFixed(valueobject.MoneyDecimals),
		TaxScheme: TaxScheme{ID: taxScheme},
	}

	doc.Note = inv.Note
	doc.DocumentCurrencyCode = currency
	doc.TaxCurrencyCode = TaxCurrency
	doc.PaymentMeansCode = inv.PaymentMeans
	if inv.DeliveryDate != nil {
		doc.ActualDeliveryDate = inv.DeliveryDate.Format(issueDateLayout)
	}
	doc.AccountingSupplierParty = supplierParty(in.Organization)
	doc.AccountingCustomerParty = customerParty(in.Client)
	doc.InvoiceLines = buildLines(inv.Services, currency, category, inv.TaxPercentage)

	lineExtension := decimal.Zero
	lineDiscounts := decimal.Zero
	for _, s := range inv.Services {
		lineExtension = lineExtension.Add(s.PriceWithoutDiscount)
		lineDiscounts = lineDiscounts.Add(s.DiscountAmount)
	}
	allowance := lineDiscounts.Add(inv.TotalDiscountAmount)
	taxExclusive := inv.Subtotal.Sub(inv.TotalDiscountAmount)

	if allowance.IsPositive() {
		doc.AllowanceCharge = &AllowanceCharge{
			ChargeIndicator:       false,
			AllowanceChargeReason: "discount",
			Amount:                amount(allowance, currency),
			TaxCategory:           category,
		}
	}
	doc.TaxTotal = DocumentTaxTotal{
		TaxAmount: amount(inv.TotalTaxAmount, currency),
		TaxSubtotal: TaxSubtotal{
			TaxableAmount: amount(taxExclusive, currency),
			TaxAmount:     amount(inv.TotalTaxAmount, currency),
			TaxCategory:   category,
		},
	}
	doc.LegalMonetaryTotal = MonetaryTotal{
		LineExtensionAmount:  amount(lineExtension, currency),
		TaxExclusiveAmount:   amount(taxExclusive, currency),
		TaxInclusiveAmount:   amount(inv.Total, currency),
		AllowanceTotalAmount: amount(allowance, currency),
		PrepaidAmount:        amount(inv.PrepaidAmount, currency),
		PayableAmount:        amount(inv.PayableAmount(), currency),
	}
	return doc, nil
}

// buildLines computes one document line per service:
// lineExtension = round(unitPrice*quantity), tax = round(unitPrice*quantity*tax%/100),
// rounding = round(lineExtension+tax).
func buildLines(services []*Service, currency string, category TaxCategory, taxPercentage decimal.Decimal) []InvoiceLine {
	lines := make([]InvoiceLine, len(services))
	for idx, s := range services {
		gross := s.UnitPrice.Mul(s.Quantity)
		lineExtension := valueobject.RoundMoney(gross)
		tax := valueobject.RoundMoney(valueobject.PercentOf(gross, taxPercentage))
		unitCode := s.UnitCode
		if unitCode == "" {
			unitCode = DefaultUnitCode
		}
		lines[idx] = InvoiceLine{
			ID: fmt.Sprintf("%d", idx+1),
			InvoicedQuantity: Quantity{
				Value:    s.Quantity.InexactFloat64(),
				UnitCode: unitCode,
			},
			LineExtensionAmount: amount(lineExtension, currency),
			TaxTotal: LineTaxTotal{
				TaxAmount:      amount(tax, currency),
				RoundingAmount: amount(lineExtension.Add(tax), currency),
			},
			Item: LineItem{
				Name:                  s.Name,
				ClassifiedTaxCategory: category,
			},
			Price: Price{PriceAmount: Amount{Value: s.UnitPrice.InexactFloat64(), CurrencyID: currency}},
		}
	}
	return lines
}

func supplierParty(p *organization.Profile) PartyBlock {
	return PartyBlock{Party: Party{
		PartyIdentification: &PartyIdentification{
			ID:       p.PartyID,
			SchemeID: p.SchemeID(),
		},
		PostalAddress:    postalAddress(p.Address),
		PartyTaxScheme:   partyTaxScheme(p.TaxRegistration),
		PartyLegalEntity: PartyLegalEntity{RegistrationName: p.RegistrationName},
	}}
}

func customerParty(c *partner.Client) PartyBlock {
	return PartyBlock{Party: Party{
		PostalAddress:    postalAddress(c.Address),
		PartyTaxScheme:   partyTaxScheme(c.TaxRegistration),
		PartyLegalEntity: PartyLegalEntity{RegistrationName: c.RegistrationName},
	}}
}

func postalAddress(a valueobject.PostalAddress) PostalAddress {
	return PostalAddress{
		StreetName:          a.StreetName,
		BuildingNumber:      a.BuildingNumber,
		CitySubdivisionName: a.CitySubdivisionName,
		CityName:            a.CityName,
		PostalZone:          a.PostalZone,
		Country:             Country{IdentificationCode: a.CountryCode},
	}
}

func partyTaxScheme(t valueobject.TaxRegistration) PartyTaxScheme {
	return PartyTaxScheme{
		CompanyID: t.CompanyID,
		TaxScheme: TaxScheme{ID: t.TaxSchemeID},
	}
}

// taxCategoryCode keeps the code before the first "-" ("S-Standard rate" -> "S")
func taxCategoryCode(category string) string {
	code, _, _ := strings.Cut(category, "-")
	return strings.TrimSpace(code)
}

func amount(v decimal.Decimal, currency string) Amount {
	return Amount{Value: valueobject.RoundMoney(v).InexactFloat64(), CurrencyID: currency}
}
