package models

import (
	"time"

	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AccountModel is the persistence model for the Account domain entity.
type AccountModel struct {
	BaseModel
	Name       string    `gorm:"type:varchar(200);not null"`
	OwnerName  string    `gorm:"type:varchar(200)"`
	OwnerEmail string    `gorm:"type:varchar(200);index"`
	Phone      string    `gorm:"type:varchar(50)"`
	Country    string    `gorm:"type:varchar(100)"`
	Address    string    `gorm:"type:text"`
	CreatorID  uuid.UUID `gorm:"type:varchar(36)"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *partner.Account {
	return &partner.Account{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		OwnerName:  m.OwnerName,
		OwnerEmail: m.OwnerEmail,
		Phone:      m.Phone,
		Country:    m.Country,
		Address:    m.Address,
		CreatorID:  m.CreatorID,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *partner.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Name = a.Name
	m.OwnerName = a.OwnerName
	m.OwnerEmail = a.OwnerEmail
	m.Phone = a.Phone
	m.Country = a.Country
	m.Address = a.Address
	m.CreatorID = a.CreatorID
}

// AddressColumns is the embedded postal address of a party
type AddressColumns struct {
	StreetName          string `gorm:"type:varchar(200)"`
	BuildingNumber      string `gorm:"type:varchar(20)"`
	CitySubdivisionName string `gorm:"type:varchar(100)"`
	CityName            string `gorm:"type:varchar(100)"`
	PostalZone          string `gorm:"type:varchar(20)"`
	CountryCode         string `gorm:"type:varchar(2);not null;default:'SA'"`
}

func addressColumnsFrom(a valueobject.PostalAddress) AddressColumns {
	return AddressColumns{
		StreetName:          a.StreetName,
		BuildingNumber:      a.BuildingNumber,
		CitySubdivisionName: a.CitySubdivisionName,
		CityName:            a.CityName,
		PostalZone:          a.PostalZone,
		CountryCode:         a.CountryCode,
	}
}

func (c AddressColumns) toDomain() valueobject.PostalAddress {
	return valueobject.PostalAddress{
		StreetName:          c.StreetName,
		BuildingNumber:      c.BuildingNumber,
		CitySubdivisionName: c.CitySubdivisionName,
		CityName:            c.CityName,
		PostalZone:          c.PostalZone,
		CountryCode:         c.CountryCode,
	}
}

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	BaseModel
	AccountID        uuid.UUID      `gorm:"type:varchar(36);not null;index"`
	RegistrationName string         `gorm:"type:varchar(200);not null"`
	Address          AddressColumns `gorm:"embedded;embeddedPrefix:address_"`
	CompanyID        string         `gorm:"type:varchar(50)"`
	TaxSchemeID      string         `gorm:"type:varchar(20);not null;default:'VAT'"`
	Email            string         `gorm:"type:varchar(200)"`
	Phone            string         `gorm:"type:varchar(50)"`
	CreatorID        uuid.UUID      `gorm:"type:varchar(36)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseEntity:       m.BaseModel.ToDomain(),
		AccountID:        m.AccountID,
		RegistrationName: m.RegistrationName,
		Address:          m.Address.toDomain(),
		TaxRegistration: valueobject.TaxRegistration{
			CompanyID:   m.CompanyID,
			TaxSchemeID: m.TaxSchemeID,
		},
		Email:     m.Email,
		Phone:     m.Phone,
		CreatorID: m.CreatorID,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.AccountID = c.AccountID
	m.RegistrationName = c.RegistrationName
	m.Address = addressColumnsFrom(c.Address)
	m.CompanyID = c.TaxRegistration.CompanyID
	m.TaxSchemeID = c.TaxRegistration.TaxSchemeID
	m.Email = c.Email
	m.Phone = c.Phone
	m.CreatorID = c.CreatorID
}

// AccountInvoiceModel links an account to one of its invoices
type AccountInvoiceModel struct {
	AccountID uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	InvoiceID string    `gorm:"type:varchar(32);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountInvoiceModel) TableName() string {
	return "account_invoices"
}

// ClientInvoiceModel links a client to one of its invoices
type ClientInvoiceModel struct {
	ClientID  uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	InvoiceID string    `gorm:"type:varchar(32);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ClientInvoiceModel) TableName() string {
	return "client_invoices"
}
