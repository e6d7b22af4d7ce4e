package models

import (
	"time"

	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"gorm.io/datatypes"
)

// OrganizationProfileModel is the single-row persistence model of the organization profile.
type OrganizationProfileModel struct {
	ID                 string         `gorm:"type:varchar(8);primaryKey"`
	PartyID            string         `gorm:"type:varchar(50)"`
	PartySchemeID      string         `gorm:"type:varchar(10);not null;default:'CRN'"`
	Address            AddressColumns `gorm:"embedded;embeddedPrefix:address_"`
	NationalAddress    string         `gorm:"type:text"`
	CompanyID          string         `gorm:"type:varchar(50)"`
	TaxSchemeID        string         `gorm:"type:varchar(20);not null;default:'VAT'"`
	RegistrationName   string         `gorm:"type:varchar(200);not null"`
	Logo               string         `gorm:"type:varchar(500)"`
	Email              string         `gorm:"type:varchar(200)"`
	Phone              string         `gorm:"type:varchar(50)"`
	BusinessType       string         `gorm:"type:varchar(100)"`
	OrganizationUnit   string         `gorm:"type:varchar(100)"`
	IndustryType       string         `gorm:"type:varchar(100)"`
	OnboardingComplete bool           `gorm:"not null;default:false"`
	PlanType           string         `gorm:"type:varchar(50)"`
	CreatedAt          time.Time      `gorm:"not null"`
	UpdatedAt          time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrganizationProfileModel) TableName() string {
	return "organization_profiles"
}

// ToDomain converts the persistence model to a domain Profile.
func (m *OrganizationProfileModel) ToDomain() *organization.Profile {
	return &organization.Profile{
		ID:              m.ID,
		PartyID:         m.PartyID,
		PartySchemeID:   m.PartySchemeID,
		Address:         m.Address.toDomain(),
		NationalAddress: m.NationalAddress,
		TaxRegistration: valueobject.TaxRegistration{
			CompanyID:   m.CompanyID,
			TaxSchemeID: m.TaxSchemeID,
		},
		RegistrationName:   m.RegistrationName,
		Logo:               m.Logo,
		Email:              m.Email,
		Phone:              m.Phone,
		BusinessType:       m.BusinessType,
		OrganizationUnit:   m.OrganizationUnit,
		IndustryType:       m.IndustryType,
		OnboardingComplete: m.OnboardingComplete,
		PlanType:           m.PlanType,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Profile.
func (m *OrganizationProfileModel) FromDomain(p *organization.Profile) {
	m.ID = p.ID
	m.PartyID = p.PartyID
	m.PartySchemeID = p.PartySchemeID
	m.Address = addressColumnsFrom(p.Address)
	m.NationalAddress = p.NationalAddress
	m.CompanyID = p.TaxRegistration.CompanyID
	m.TaxSchemeID = p.TaxRegistration.TaxSchemeID
	m.RegistrationName = p.RegistrationName
	m.Logo = p.Logo
	m.Email = p.Email
	m.Phone = p.Phone
	m.BusinessType = p.BusinessType
	m.OrganizationUnit = p.OrganizationUnit
	m.IndustryType = p.IndustryType
	m.OnboardingComplete = p.OnboardingComplete
	m.PlanType = p.PlanType
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// OnboardingModel is the persistence model of an EGS onboarding request.
// Payload keeps the full request as sent to the authority.
type OnboardingModel struct {
	BaseModel
	EGSClientName         string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	VATRegistrationNumber string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email                 string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	Payload               datatypes.JSONMap `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OnboardingModel) TableName() string {
	return "onboardings"
}

// FromDomain populates the persistence model from a domain Onboarding.
// The one-time password is not stored.
func (m *OnboardingModel) FromDomain(o *organization.Onboarding) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.EGSClientName = o.EGSClientName
	m.VATRegistrationNumber = o.VATRegistrationNumber
	m.Email = o.Email
	m.Payload = datatypes.JSONMap{
		"egs_client_name":         o.EGSClientName,
		"vat_registration_number": o.VATRegistrationNumber,
		"city":                    o.City,
		"address":                 o.Address,
		"country_code":            o.CountryCode,
		"business_type":           o.BusinessType,
		"location_address":        o.LocationAddress,
		"industry_type":           o.IndustryType,
		"contact_number":          o.ContactNumber,
		"email":                   o.Email,
		"zip_code":                o.ZipCode,
		"organization_unit":       o.OrganizationUnit,
	}
}
