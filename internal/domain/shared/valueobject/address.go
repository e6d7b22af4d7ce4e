package valueobject

import "strings"

// DefaultCountryCode is the ISO 3166-1 alpha-2 code used when none is given
const DefaultCountryCode = "SA"

// PostalAddress is a national address in the shape the compliance authority expects
type PostalAddress struct {
	StreetName          string
	BuildingNumber      string
	CitySubdivisionName string
	CityName            string
	PostalZone          string
	CountryCode         string
}

// Normalized returns a copy with trimmed fields and a default country code
func (a PostalAddress) Normalized() PostalAddress {
	n := PostalAddress{
		StreetName:          strings.TrimSpace(a.StreetName),
		BuildingNumber:      strings.TrimSpace(a.BuildingNumber),
		CitySubdivisionName: strings.TrimSpace(a.CitySubdivisionName),
		CityName:            strings.TrimSpace(a.CityName),
		PostalZone:          strings.TrimSpace(a.PostalZone),
		CountryCode:         strings.ToUpper(strings.TrimSpace(a.CountryCode)),
	}
	if n.CountryCode == "" {
		n.CountryCode = DefaultCountryCode
	}
	return n
}

// IsEmpty reports whether no address line is set
func (a PostalAddress) IsEmpty() bool {
	return a.StreetName == "" && a.BuildingNumber == "" && a.CityName == "" && a.PostalZone == ""
}

// TaxRegistration identifies a party for tax purposes
type TaxRegistration struct {
	CompanyID   string // VAT registration number
	TaxSchemeID string
}

// DefaultTaxSchemeID is the tax scheme applied when none is configured
const DefaultTaxSchemeID = "VAT"

// Normalized returns a copy with trimmed fields and a default tax scheme
func (t TaxRegistration) Normalized() TaxRegistration {
	n := TaxRegistration{
		CompanyID:   strings.TrimSpace(t.CompanyID),
		TaxSchemeID: strings.TrimSpace(t.TaxSchemeID),
	}
	if n.TaxSchemeID == "" {
		n.TaxSchemeID = DefaultTaxSchemeID
	}
	return n
}
