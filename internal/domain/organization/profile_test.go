package organization

import (
	"testing"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("Maximum Speed Tech Supply LTD")
	require.NoError(t, err)
	assert.Equal(t, ProfileID, p.ID)
	assert.Equal(t, "CRN", p.SchemeID())
	assert.Equal(t, "VAT", p.TaxRegistration.TaxSchemeID)

	_, err = NewProfile(" ")
	assert.ErrorIs(t, err, shared.ErrMissingFields)
}

func TestProfile_Apply(t *testing.T) {
	p, err := NewProfile("Seller")
	require.NoError(t, err)

	err = p.Apply(ProfilePatch{
		PartyID:         strPtr("1010010000"),
		Email:           strPtr(" Billing@Seller.SA "),
		Address:         &valueobject.PostalAddress{StreetName: "Prince Sultan", CityName: "Riyadh"},
		TaxRegistration: &valueobject.TaxRegistration{CompanyID: "399999999900003"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1010010000", p.PartyID)
	assert.Equal(t, "billing@seller.sa", p.Email)
	assert.Equal(t, "SA", p.Address.CountryCode)
	assert.Equal(t, "Seller", p.RegistrationName)

	err = p.Apply(ProfilePatch{RegistrationName: strPtr("")})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	p.PartySchemeID = ""
	assert.Equal(t, DefaultPartySchemeID, p.SchemeID())
}

func TestOnboarding_Validate(t *testing.T) {
	o := &Onboarding{OTP: "123456", EGSClientName: "egs-1"}
	err := o.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrMissingFields)
	assert.Contains(t, err.Error(), "vat_registration_number")
	assert.NotContains(t, err.Error(), "otp,")

	o = &Onboarding{
		OTP: "123456", EGSClientName: "egs-1", VATRegistrationNumber: "399999999900003",
		City: "Riyadh", Address: "King Fahd Rd", CountryCode: "SA", BusinessType: "B2B",
		LocationAddress: "HQ", IndustryType: "Retail", ContactNumber: "+966500000000",
		Email: "egs@seller.sa", ZipCode: "12345", OrganizationUnit: "Main",
	}
	assert.NoError(t, o.Validate())
}
