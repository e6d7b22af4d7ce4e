package organization

import (
	"time"

	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
)

// CreateProfileRequest is the registration form of the organization profile
type CreateProfileRequest struct {
	CompanyLegalName     string `json:"company_legal_name" binding:"required,max=300"`
	CompanyLocation      string `json:"company_location" binding:"omitempty,len=2"`
	BusinessType         string `json:"business_type"`
	OrganizationUnit     string `json:"organization_unit"`
	IndustryType         string `json:"industry_type"`
	VATNumber            string `json:"vat_number" binding:"omitempty,max=15"`
	CompanyCRN           string `json:"company_crn"`
	SchemeID             string `json:"schemeId"`
	BuildingNumber       string `json:"building_number"`
	StreetName           string `json:"street_name"`
	City                 string `json:"city"`
	CitySubdivision      string `json:"city_subdivision"`
	PostalCode           string `json:"postal_code"`
	Email                string `json:"email" binding:"omitempty,email"`
	Phone                string `json:"phone"`
	SaudiNationalAddress string `json:"saudi_national_address"`
	PlanType             string `json:"plan_type"`
}

func (r CreateProfileRequest) patch() organization.ProfilePatch {
	address := valueobject.PostalAddress{
		StreetName:          r.StreetName,
		BuildingNumber:      r.BuildingNumber,
		CitySubdivisionName: r.CitySubdivision,
		CityName:            r.City,
		PostalZone:          r.PostalCode,
		CountryCode:         r.CompanyLocation,
	}
	tax := valueobject.TaxRegistration{CompanyID: r.VATNumber}
	p := organization.ProfilePatch{
		PartyID:          &r.CompanyCRN,
		Address:          &address,
		NationalAddress:  &r.SaudiNationalAddress,
		TaxRegistration:  &tax,
		Email:            &r.Email,
		Phone:            &r.Phone,
		BusinessType:     &r.BusinessType,
		OrganizationUnit: &r.OrganizationUnit,
		IndustryType:     &r.IndustryType,
		PlanType:         &r.PlanType,
	}
	if r.SchemeID != "" {
		p.PartySchemeID = &r.SchemeID
	}
	return p
}

// UpdateProfileRequest changes the declared profile fields and creates the
// profile when none exists yet. Empty strings leave a field unchanged.
type UpdateProfileRequest struct {
	PartyID                          *string `json:"partyId"`
	SchemeID                         *string `json:"schemeId"`
	StreetName                       *string `json:"streetName"`
	BuildingNumber                   *string `json:"buildingNumber"`
	CitySubdivisionName              *string `json:"citySubdivisionName"`
	CityName                         *string `json:"cityName"`
	PostalZone                       *string `json:"postalZone"`
	CountryIdentificationCode        *string `json:"countryIdentificationCode" binding:"omitempty,len=2"`
	PartyTaxSchemeCompanyID          *string `json:"partyTaxSchemeCompanyID"`
	PartyTaxSchemeTaxSchemeID        *string `json:"partyTaxSchemeTaxSchemeId"`
	PartyLegalEntityRegistrationName *string `json:"partyLegalEntityRegistrationName"`
	Email                            *string `json:"email" binding:"omitempty,email"`
	PhoneNumber                      *string `json:"phoneNumber"`
	SaudiNationalAddress             *string `json:"saudi_national_address"`
	BusinessType                     *string `json:"business_type"`
	OrganizationUnit                 *string `json:"organization_unit"`
	IndustryType                     *string `json:"industry_type"`
	PlanType                         *string `json:"plan_type"`
	OnboardingComplete               *bool   `json:"onboarding_complete"`
}

func (r UpdateProfileRequest) patch(current *organization.Profile) organization.ProfilePatch {
	p := organization.ProfilePatch{
		PartyID:          present(r.PartyID),
		PartySchemeID:    present(r.SchemeID),
		NationalAddress:  present(r.SaudiNationalAddress),
		RegistrationName: present(r.PartyLegalEntityRegistrationName),
		Email:            present(r.Email),
		Phone:            present(r.PhoneNumber),
		BusinessType:     present(r.BusinessType),
		OrganizationUnit: present(r.OrganizationUnit),
		IndustryType:     present(r.IndustryType),
		PlanType:         present(r.PlanType),
	}

	address := current.Address
	changed := overlay(&address.StreetName, r.StreetName)
	changed = overlay(&address.BuildingNumber, r.BuildingNumber) || changed
	changed = overlay(&address.CitySubdivisionName, r.CitySubdivisionName) || changed
	changed = overlay(&address.CityName, r.CityName) || changed
	changed = overlay(&address.PostalZone, r.PostalZone) || changed
	changed = overlay(&address.CountryCode, r.CountryIdentificationCode) || changed
	if changed {
		p.Address = &address
	}

	tax := current.TaxRegistration
	changed = overlay(&tax.CompanyID, r.PartyTaxSchemeCompanyID)
	changed = overlay(&tax.TaxSchemeID, r.PartyTaxSchemeTaxSchemeID) || changed
	if changed {
		p.TaxRegistration = &tax
	}
	return p
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func overlay(dst *string, src *string) bool {
	if present(src) == nil {
		return false
	}
	*dst = *src
	return true
}

// OnboardRequest registers an EGS unit with the authority
type OnboardRequest struct {
	OTP                   string `json:"otp" binding:"required"`
	EGSClientName         string `json:"egs_client_name" binding:"required"`
	VATRegistrationNumber string `json:"vat_registration_number" binding:"required"`
	City                  string `json:"city"`
	Address               string `json:"address"`
	CountryCode           string `json:"country_code"`
	BusinessType          string `json:"business_type"`
	LocationAddress       string `json:"location_address"`
	IndustryType          string `json:"industry_type"`
	ContactNumber         string `json:"contact_number"`
	Email                 string `json:"email" binding:"omitempty,email"`
	ZipCode               string `json:"zip_code"`
	OrganizationUnit      string `json:"organization_unit"`
}

func (r OnboardRequest) toDomain() *organization.Onboarding {
	return &organization.Onboarding{
		OTP:                   r.OTP,
		EGSClientName:         r.EGSClientName,
		VATRegistrationNumber: r.VATRegistrationNumber,
		City:                  r.City,
		Address:               r.Address,
		CountryCode:           r.CountryCode,
		BusinessType:          r.BusinessType,
		LocationAddress:       r.LocationAddress,
		IndustryType:          r.IndustryType,
		ContactNumber:         r.ContactNumber,
		Email:                 r.Email,
		ZipCode:               r.ZipCode,
		OrganizationUnit:      r.OrganizationUnit,
	}
}

// OnboardResult is the outcome of an accepted onboarding
type OnboardResult struct {
	Profile  ProfileResponse `json:"profile"`
	Response any             `json:"zatca_response,omitempty"`
}

// ProfileResponse represents the organization profile in API responses
type ProfileResponse struct {
	ID                               string    `json:"id"`
	PartyID                          string    `json:"partyId"`
	PartySchemeID                    string    `json:"partySchemeID"`
	StreetName                       string    `json:"streetName"`
	BuildingNumber                   string    `json:"buildingNumber"`
	CitySubdivisionName              string    `json:"citySubdivisionName"`
	CityName                         string    `json:"cityName"`
	PostalZone                       string    `json:"postalZone"`
	CountryIdentificationCode        string    `json:"countryIdentificationCode"`
	SaudiNationalAddress             string    `json:"saudi_national_address"`
	PartyTaxSchemeCompanyID          string    `json:"partyTaxSchemeCompanyID"`
	PartyTaxSchemeTaxSchemeID        string    `json:"partyTaxSchemeTaxSchemeId"`
	PartyLegalEntityRegistrationName string    `json:"partyLegalEntityRegistrationName"`
	Logo                             string    `json:"logo,omitempty"`
	Email                            string    `json:"email,omitempty"`
	PhoneNumber                      string    `json:"phoneNumber,omitempty"`
	BusinessType                     string    `json:"business_type"`
	OrganizationUnit                 string    `json:"organization_unit"`
	IndustryType                     string    `json:"industry_type"`
	OnboardingComplete               bool      `json:"onboarding_complete"`
	PlanType                         string    `json:"plan_type"`
	CreatedAt                        time.Time `json:"createdAt"`
	UpdatedAt                        time.Time `json:"updatedAt"`
}

// ToProfileResponse converts the domain profile to its response form
func ToProfileResponse(p *organization.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                               p.ID,
		PartyID:                          p.PartyID,
		PartySchemeID:                    p.SchemeID(),
		StreetName:                       p.Address.StreetName,
		BuildingNumber:                   p.Address.BuildingNumber,
		CitySubdivisionName:              p.Address.CitySubdivisionName,
		CityName:                         p.Address.CityName,
		PostalZone:                       p.Address.PostalZone,
		CountryIdentificationCode:        p.Address.CountryCode,
		SaudiNationalAddress:             p.NationalAddress,
		PartyTaxSchemeCompanyID:          p.TaxRegistration.CompanyID,
		PartyTaxSchemeTaxSchemeID:        p.TaxRegistration.TaxSchemeID,
		PartyLegalEntityRegistrationName: p.RegistrationName,
		Logo:                             p.Logo,
		Email:                            p.Email,
		PhoneNumber:                      p.Phone,
		BusinessType:                     p.BusinessType,
		OrganizationUnit:                 p.OrganizationUnit,
		IndustryType:                     p.IndustryType,
		OnboardingComplete:               p.OnboardingComplete,
		PlanType:                         p.PlanType,
		CreatedAt:                        p.CreatedAt,
		UpdatedAt:                        p.UpdatedAt,
	}
}
