package models

import (
	"encoding/json"
	"time"

	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Its lines live in ServiceModel rows ordered by position.
type InvoiceModel struct {
	ID                  string                  `gorm:"type:varchar(32);primaryKey"`
	InvoiceID           string                  `gorm:"type:varchar(32);not null;uniqueIndex"`
	UUID                string                  `gorm:"column:uuid;type:varchar(36);not null;uniqueIndex"`
	AccountID           uuid.UUID               `gorm:"type:varchar(36);not null;index"`
	ClientID            uuid.UUID               `gorm:"type:varchar(36);not null;index"`
	OrgProfileID        string                  `gorm:"type:varchar(8);not null"`
	CreatorID           uuid.UUID               `gorm:"type:varchar(36)"`
	Status              invoicing.InvoiceStatus `gorm:"type:varchar(32);not null;default:'Draft';index"`
	Name                string                  `gorm:"type:varchar(200);not null"`
	InvoiceDate         *time.Time
	InvoiceTime         string                `gorm:"type:varchar(8)"`
	DeliveryDate        *time.Time
	Type                invoicing.InvoiceType `gorm:"column:invoice_type;type:varchar(40);not null"`
	TypeCodeValue       string                `gorm:"type:varchar(3)"`
	TypeCodeName        string                `gorm:"type:varchar(7)"`
	Currency            string                `gorm:"type:varchar(3);not null;default:'SAR'"`
	TaxCategory         string                `gorm:"type:varchar(50)"`
	TaxSchemeID         string                `gorm:"type:varchar(20)"`
	PaymentMeans        string                `gorm:"type:varchar(10)"`
	Note                string                `gorm:"type:text"`
	CustomID            string                `gorm:"type:varchar(100)"`
	Subtotal            decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDiscountAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPercentage       decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	TotalTaxAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Total               decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PrepaidAmount       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	QRCode              string                `gorm:"column:qr_code;type:text"`
	ErrorMessages       datatypes.JSON
	WarningMessages     datatypes.JSON
	ZatcaResponse       datatypes.JSON
	InvoiceXMLLink      string    `gorm:"column:invoice_xml_link;type:varchar(500)"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice without its lines.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	return &invoicing.Invoice{
		ID:                  m.ID,
		InvoiceID:           m.InvoiceID,
		UUID:                m.UUID,
		AccountID:           m.AccountID,
		ClientID:            m.ClientID,
		OrgProfileID:        m.OrgProfileID,
		CreatorID:           m.CreatorID,
		Status:              m.Status,
		Name:                m.Name,
		InvoiceDate:         m.InvoiceDate,
		InvoiceTime:         m.InvoiceTime,
		DeliveryDate:        m.DeliveryDate,
		Type:                m.Type,
		TypeCodeValue:       m.TypeCodeValue,
		TypeCodeName:        m.TypeCodeName,
		Currency:            m.Currency,
		TaxCategory:         m.TaxCategory,
		TaxSchemeID:         m.TaxSchemeID,
		PaymentMeans:        m.PaymentMeans,
		Note:                m.Note,
		CustomID:            m.CustomID,
		Subtotal:            m.Subtotal,
		TotalDiscountAmount: m.TotalDiscountAmount,
		TaxPercentage:       m.TaxPercentage,
		TotalTaxAmount:      m.TotalTaxAmount,
		Total:               m.Total,
		PrepaidAmount:       m.PrepaidAmount,
		QRCode:              m.QRCode,
		ErrorMessages:       decodeStrings(m.ErrorMessages),
		WarningMessages:     decodeStrings(m.WarningMessages),
		AuthorityResponse:   []byte(m.ZatcaResponse),
		XMLLink:             m.InvoiceXMLLink,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(i *invoicing.Invoice) {
	m.ID = i.ID
	m.InvoiceID = i.InvoiceID
	m.UUID = i.UUID
	m.AccountID = i.AccountID
	m.ClientID = i.ClientID
	m.OrgProfileID = i.OrgProfileID
	m.CreatorID = i.CreatorID
	m.Status = i.Status
	m.Name = i.Name
	m.InvoiceDate = i.InvoiceDate
	m.InvoiceTime = i.InvoiceTime
	m.DeliveryDate = i.DeliveryDate
	m.Type = i.Type
	m.TypeCodeValue = i.TypeCodeValue
	m.TypeCodeName = i.TypeCodeName
	m.Currency = i.Currency
	m.TaxCategory = i.TaxCategory
	m.TaxSchemeID = i.TaxSchemeID
	m.PaymentMeans = i.PaymentMeans
	m.Note = i.Note
	m.CustomID = i.CustomID
	m.Subtotal = i.Subtotal
	m.TotalDiscountAmount = i.TotalDiscountAmount
	m.TaxPercentage = i.TaxPercentage
	m.TotalTaxAmount = i.TotalTaxAmount
	m.Total = i.Total
	m.PrepaidAmount = i.PrepaidAmount
	m.QRCode = i.QRCode
	m.ErrorMessages = encodeStrings(i.ErrorMessages)
	m.WarningMessages = encodeStrings(i.WarningMessages)
	m.ZatcaResponse = rawJSON(i.AuthorityResponse)
	m.InvoiceXMLLink = i.XMLLink
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(i *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// ServiceModel is the persistence model for an invoice line.
// InvoiceID is NULL until the owning invoice has been written.
type ServiceModel struct {
	BaseModel
	InvoiceID            *string         `gorm:"type:varchar(32);index"`
	Position             int             `gorm:"not null;default:0"`
	Name                 string          `gorm:"type:varchar(200);not null"`
	Description          string          `gorm:"type:text"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCode             string          `gorm:"type:varchar(10);not null;default:'PCE'"`
	ItemCode             string          `gorm:"type:varchar(50);index"`
	Quantity             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PriceWithoutDiscount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercentage   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ItemDiscountAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPrice           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatorID            uuid.UUID       `gorm:"type:varchar(36)"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the persistence model to a domain Service line.
func (m *ServiceModel) ToDomain() *invoicing.Service {
	s := &invoicing.Service{
		BaseEntity:           m.BaseModel.ToDomain(),
		Position:             m.Position,
		Name:                 m.Name,
		Description:          m.Description,
		UnitPrice:            m.UnitPrice,
		UnitCode:             m.UnitCode,
		ItemCode:             m.ItemCode,
		Quantity:             m.Quantity,
		PriceWithoutDiscount: m.PriceWithoutDiscount,
		DiscountPercentage:   m.DiscountPercentage,
		DiscountAmount:       m.ItemDiscountAmount,
		TotalPrice:           m.TotalPrice,
		CreatorID:            m.CreatorID,
	}
	if m.InvoiceID != nil {
		s.InvoiceID = *m.InvoiceID
	}
	return s
}

// FromDomain populates the persistence model from a domain Service line.
func (m *ServiceModel) FromDomain(s *invoicing.Service) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.InvoiceID = nil
	if s.InvoiceID != "" {
		id := s.InvoiceID
		m.InvoiceID = &id
	}
	m.Position = s.Position
	m.Name = s.Name
	m.Description = s.Description
	m.UnitPrice = s.UnitPrice
	m.UnitCode = s.UnitCode
	m.ItemCode = s.ItemCode
	m.Quantity = s.Quantity
	m.PriceWithoutDiscount = s.PriceWithoutDiscount
	m.DiscountPercentage = s.DiscountPercentage
	m.ItemDiscountAmount = s.DiscountAmount
	m.TotalPrice = s.TotalPrice
	m.CreatorID = s.CreatorID
}

// ServiceModelFromDomain creates a persistence model from a domain Service line.
func ServiceModelFromDomain(s *invoicing.Service) *ServiceModel {
	m := &ServiceModel{}
	m.FromDomain(s)
	return m
}

// InvoiceCounterModel records the invoice counter value of an invoice
type InvoiceCounterModel struct {
	InvoiceID    string    `gorm:"type:varchar(32);primaryKey"`
	CounterValue int64     `gorm:"not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceCounterModel) TableName() string {
	return "invoice_counters"
}

// ToDomain converts the persistence model to a domain Counter.
func (m *InvoiceCounterModel) ToDomain() *invoicing.Counter {
	return &invoicing.Counter{
		InvoiceID:    m.InvoiceID,
		CounterValue: m.CounterValue,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Counter.
func (m *InvoiceCounterModel) FromDomain(c *invoicing.Counter) {
	m.InvoiceID = c.InvoiceID
	m.CounterValue = c.CounterValue
	m.CreatedAt = c.CreatedAt
}

func encodeStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

func decodeStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil || len(values) == 0 {
		return nil
	}
	return values
}

// rawJSON keeps valid JSON as is and stores anything else as a JSON string
func rawJSON(data []byte) datatypes.JSON {
	if len(data) == 0 {
		return nil
	}
	if json.Valid(data) {
		return datatypes.JSON(data)
	}
	quoted, _ := json.Marshal(string(data))
	return datatypes.JSON(quoted)
}
