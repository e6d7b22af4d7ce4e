package invoicing

import (
	"encoding/json"
	"time"

	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceRequest is one line item of a create or update request.
// ID is set only for lines that already belong to the invoice.
type ServiceRequest struct {
	ID                 *uuid.UUID      `json:"id"`
	Name               string          `json:"name" binding:"max=200"`
	Description        string          `json:"description"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	UnitCode           string          `json:"unitCode" binding:"max=10"`
	ItemCode           string          `json:"item_code" binding:"max=50"`
	Quantity           decimal.Decimal `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

func (r ServiceRequest) toInput() invoicing.ServiceInput {
	return invoicing.ServiceInput{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		UnitPrice:          r.UnitPrice,
		UnitCode:           r.UnitCode,
		ItemCode:           r.ItemCode,
		Quantity:           r.Quantity,
		DiscountPercentage: r.DiscountPercentage,
	}
}

// CreateInvoiceRequest is the body of an invoice creation.
// Totals are computed from the lines; the declared total must agree within 0.01.
type CreateInvoiceRequest struct {
	AccountID     *uuid.UUID       `json:"account"`
	ClientID      *uuid.UUID       `json:"client"`
	UserID        *uuid.UUID       `json:"userId"`
	Services      []ServiceRequest `json:"services" binding:"omitempty,dive"`
	InvoiceName   string           `json:"invoice_name" binding:"max=200"`
	InvoiceDate   *time.Time       `json:"invoiceDate"`
	DeliveryDate  *time.Time       `json:"deliveryDate"`
	InvoiceType   string           `json:"invoice_type"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
	TaxCategory   string           `json:"tax_category"`
	TaxSchemeID   string           `json:"tax_scheme_id"`
	PaymentMeans  string           `json:"payment_means"`
	Note          string           `json:"note"`
	CustomID      string           `json:"custom_id"`
	Discount      decimal.Decimal  `json:"discount"`
	TaxPercentage decimal.Decimal  `json:"tax_percentage"`
	PrepaidAmount decimal.Decimal  `json:"prepaid_amount"`
	Total         *decimal.Decimal `json:"total"`
}

// missingFields lists the required fields absent from the request
func (r *CreateInvoiceRequest) missingFields() []string {
	var missing []string
	if r.AccountID == nil || *r.AccountID == uuid.Nil {
		missing = append(missing, "account")
	}
	if len(r.Services) == 0 {
		missing = append(missing, "services")
	}
	if r.InvoiceName == "" {
		missing = append(missing, "invoice_name")
	}
	if r.ClientID == nil || *r.ClientID == uuid.Nil {
		missing = append(missing, "client")
	}
	if r.InvoiceDate == nil {
		missing = append(missing, "invoiceDate")
	}
	if r.Total == nil || r.Total.IsZero() {
		missing = append(missing, "total")
	}
	return missing
}

func (r *CreateInvoiceRequest) header(creator uuid.UUID) invoicing.Header {
	return invoicing.Header{
		AccountID:     *r.AccountID,
		ClientID:      *r.ClientID,
		CreatorID:     creator,
		Name:          r.InvoiceName,
		InvoiceDate:   r.InvoiceDate,
		DeliveryDate:  r.DeliveryDate,
		Type:          invoicing.InvoiceType(r.InvoiceType),
		Currency:      r.Currency,
		TaxCategory:   r.TaxCategory,
		TaxSchemeID:   r.TaxSchemeID,
		PaymentMeans:  r.PaymentMeans,
		Note:          r.Note,
		CustomID:      r.CustomID,
		TaxPercentage: r.TaxPercentage,
		Discount:      r.Discount,
		PrepaidAmount: r.PrepaidAmount,
	}
}

// UpdateInvoiceRequest is the body of an invoice update. Absent fields keep
// their stored value; Services, when present, is the complete line list.
type UpdateInvoiceRequest struct {
	AccountID     *uuid.UUID        `json:"account"`
	ClientID      *uuid.UUID        `json:"client"`
	UserID        *uuid.UUID        `json:"userId"`
	Services      *[]ServiceRequest `json:"services"`
	InvoiceName   *string           `json:"invoice_name" binding:"omitempty,min=1,max=200"`
	InvoiceDate   *time.Time        `json:"invoiceDate"`
	DeliveryDate  *time.Time        `json:"deliveryDate"`
	InvoiceType   *string           `json:"invoice_type"`
	Currency      *string           `json:"currency" binding:"omitempty,len=3"`
	TaxCategory   *string           `json:"tax_category"`
	TaxSchemeID   *string           `json:"tax_scheme_id"`
	PaymentMeans  *string           `json:"payment_means"`
	Note          *string           `json:"note"`
	CustomID      *string           `json:"custom_id"`
	Discount      *decimal.Decimal  `json:"discount"`
	TaxPercentage *decimal.Decimal  `json:"tax_percentage"`
	PrepaidAmount *decimal.Decimal  `json:"prepaid_amount"`
}

// Patch converts the request into the typed invoice patch
func (r *UpdateInvoiceRequest) Patch() invoicing.InvoicePatch {
	p := invoicing.InvoicePatch{
		AccountID:     r.AccountID,
		ClientID:      r.ClientID,
		Name:          r.InvoiceName,
		InvoiceDate:   r.InvoiceDate,
		DeliveryDate:  r.DeliveryDate,
		Currency:      r.Currency,
		TaxCategory:   r.TaxCategory,
		TaxSchemeID:   r.TaxSchemeID,
		PaymentMeans:  r.PaymentMeans,
		Note:          r.Note,
		CustomID:      r.CustomID,
		TaxPercentage: r.TaxPercentage,
		Discount:      r.Discount,
		PrepaidAmount: r.PrepaidAmount,
	}
	if r.InvoiceType != nil {
		t := invoicing.InvoiceType(*r.InvoiceType)
		p.Type = &t
	}
	if r.Services != nil {
		lines := make([]invoicing.ServiceInput, len(*r.Services))
		for i, s := range *r.Services {
			lines[i] = s.toInput()
		}
		p.Lines = &lines
	}
	return p
}

// ChangeStatusRequest moves an invoice to a status reported by the authority flow
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListInvoicesFilter represents filter options for invoice listings
type ListInvoicesFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ServiceResponse represents an invoice line in API responses
type ServiceResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	UnitPrice            decimal.Decimal `json:"unitPrice"`
	UnitCode             string          `json:"unitCode"`
	ItemCode             string          `json:"item_code,omitempty"`
	Quantity             decimal.Decimal `json:"quantity"`
	PriceWithoutDiscount decimal.Decimal `json:"price_without_discount"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	ItemDiscountAmount   decimal.Decimal `json:"item_discount_amount"`
	TotalPrice           decimal.Decimal `json:"totalPrice"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                  string            `json:"id"`
	InvoiceID           string            `json:"invoice_id"`
	UUID                string            `json:"uuid"`
	AccountID           uuid.UUID         `json:"account"`
	ClientID            uuid.UUID         `json:"client"`
	OrgProfileID        string            `json:"myOrgProfile"`
	CreatorID           uuid.UUID         `json:"creator"`
	Status              string            `json:"status"`
	InvoiceName         string            `json:"invoice_name"`
	InvoiceDate         *time.Time        `json:"invoiceDate"`
	InvoiceTime         string            `json:"invoiceTime"`
	DeliveryDate        *time.Time        `json:"deliveryDate,omitempty"`
	InvoiceType         string            `json:"invoice_type"`
	TypeCodeValue       string            `json:"invoice_type_code_value"`
	TypeCodeName        string            `json:"invoice_type_code_name"`
	Currency            string            `json:"currency"`
	TaxCategory         string            `json:"tax_category,omitempty"`
	TaxSchemeID         string            `json:"tax_scheme_id,omitempty"`
	PaymentMeans        string            `json:"payment_means,omitempty"`
	Note                string            `json:"note,omitempty"`
	CustomID            string            `json:"custom_id,omitempty"`
	Subtotal            decimal.Decimal   `json:"subtotal"`
	TotalDiscountAmount decimal.Decimal   `json:"total_discount_amount"`
	TaxPercentage       decimal.Decimal   `json:"tax_percentage"`
	TotalTaxAmount      decimal.Decimal   `json:"total_tax_amount"`
	Total               decimal.Decimal   `json:"total"`
	PrepaidAmount       decimal.Decimal   `json:"prepaid_amount"`
	QRCode              string            `json:"zatca_qr_code"`
	ErrorMessages       []string          `json:"zatcaErrorMessages"`
	WarningMessages     []string          `json:"zatcaWarningMessages"`
	XMLLink             string            `json:"invoice_xml_link,omitempty"`
	Services            []ServiceResponse `json:"services,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// PartySummary is the account or client shown with an invoice
type PartySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// OrganizationSummary is the seller shown with an invoice
type OrganizationSummary struct {
	ID               string `json:"id"`
	RegistrationName string `json:"registration_name"`
	VATNumber        string `json:"vat_number,omitempty"`
}

// InvoiceDetailResponse is an invoice with its lines and resolved parties
type InvoiceDetailResponse struct {
	InvoiceResponse
	Account           *PartySummary        `json:"account_detail,omitempty"`
	Client            *PartySummary        `json:"client_detail,omitempty"`
	Organization      *OrganizationSummary `json:"org_profile_detail,omitempty"`
	AuthorityResponse json.RawMessage      `json:"zatca_response,omitempty"`
}

// InvoiceListResult is one page of invoices
type InvoiceListResult struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToServiceResponse converts a domain line to its response DTO
func ToServiceResponse(s *invoicing.Service) ServiceResponse {
	return ServiceResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		Description:          s.Description,
		UnitPrice:            s.UnitPrice,
		UnitCode:             s.UnitCode,
		ItemCode:             s.ItemCode,
		Quantity:             s.Quantity,
		PriceWithoutDiscount: s.PriceWithoutDiscount,
		DiscountPercentage:   s.DiscountPercentage,
		ItemDiscountAmount:   s.DiscountAmount,
		TotalPrice:           s.TotalPrice,
	}
}

// ToInvoiceResponse converts a domain invoice to its response DTO
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                  inv.ID,
		InvoiceID:           inv.InvoiceID,
		UUID:                inv.UUID,
		AccountID:           inv.AccountID,
		ClientID:            inv.ClientID,
		OrgProfileID:        inv.OrgProfileID,
		CreatorID:           inv.CreatorID,
		Status:              inv.Status.String(),
		InvoiceName:         inv.Name,
		InvoiceDate:         inv.InvoiceDate,
		InvoiceTime:         inv.InvoiceTime,
		DeliveryDate:        inv.DeliveryDate,
		InvoiceType:         inv.Type.String(),
		TypeCodeValue:       inv.TypeCodeValue,
		TypeCodeName:        inv.TypeCodeName,
		Currency:            inv.Currency,
		TaxCategory:         inv.TaxCategory,
		TaxSchemeID:         inv.TaxSchemeID,
		PaymentMeans:        inv.PaymentMeans,
		Note:                inv.Note,
		CustomID:            inv.CustomID,
		Subtotal:            inv.Subtotal,
		TotalDiscountAmount: inv.TotalDiscountAmount,
		TaxPercentage:       inv.TaxPercentage,
		TotalTaxAmount:      inv.TotalTaxAmount,
		Total:               inv.Total,
		PrepaidAmount:       inv.PrepaidAmount,
		QRCode:              inv.QRCode,
		ErrorMessages:       nonNil(inv.ErrorMessages),
		WarningMessages:     nonNil(inv.WarningMessages),
		XMLLink:             inv.XMLLink,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if len(inv.Services) > 0 {
		resp.Services = make([]ServiceResponse, len(inv.Services))
		for i, s := range inv.Services {
			resp.Services[i] = ToServiceResponse(s)
		}
	}
	return resp
}

func toDetailResponse(inv *invoicing.Invoice, account *partner.Account, client *partner.Client, org *organization.Profile) *InvoiceDetailResponse {
	detail := &InvoiceDetailResponse{InvoiceResponse: ToInvoiceResponse(inv)}
	if account != nil {
		detail.Account = &PartySummary{ID: account.ID, Name: account.Name}
	}
	if client != nil {
		detail.Client = &PartySummary{ID: client.ID, Name: client.RegistrationName}
	}
	if org != nil {
		detail.Organization = &OrganizationSummary{
			ID:               org.ID,
			RegistrationName: org.RegistrationName,
			VATNumber:        org.TaxRegistration.CompanyID,
		}
	}
	if json.Valid(inv.AuthorityResponse) {
		detail.AuthorityResponse = inv.AuthorityResponse
	}
	return detail
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
