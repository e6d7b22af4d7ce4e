package organization

import (
	"strings"

	"github.com/einvoice/backend/internal/domain/shared"
)

// Onboarding is a request to register an e-invoicing generation solution
// (EGS) unit of the organization with the compliance authority
type Onboarding struct {
	shared.BaseEntity
	OTP                   string
	EGSClientName         string
	VATRegistrationNumber string
	City                  string
	Address               string
	CountryCode           string
	BusinessType          string
	LocationAddress       string
	IndustryType          string
	ContactNumber         string
	Email                 string
	ZipCode               string
	OrganizationUnit      string
}

// Validate checks that every field the authority requires is present
func (o *Onboarding) Validate() error {
	required := map[string]string{
		"otp":                     o.OTP,
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
	var missing []string
	for _, field := range onboardingFieldOrder {
		if strings.TrimSpace(required[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return shared.NewDomainError(shared.CodeMissingFields, "Missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

var onboardingFieldOrder = []string{
	"otp", "egs_client_name", "vat_registration_number", "city", "address", "country_code",
	"business_type", "location_address", "industry_type", "contact_number", "email",
	"zip_code", "organization_unit",
}
