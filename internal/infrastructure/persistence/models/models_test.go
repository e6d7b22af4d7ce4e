package models

import (
	"testing"
	"time"

	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceModel_RoundTripKeepsMessagesAndResponse(t *testing.T) {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	inv := &invoicing.Invoice{
		ID:                "3",
		InvoiceID:         "3",
		UUID:              uuid.NewString(),
		Status:            invoicing.StatusValidated,
		Name:              "July services",
		InvoiceDate:       &date,
		Type:              invoicing.TypeSimplifiedInvoice,
		Total:             decimal.RequireFromString("230.00"),
		QRCode:            "AQ==",
		ErrorMessages:     nil,
		WarningMessages:   []string{"BR-KSA-08 buyer id missing"},
		AuthorityResponse: []byte(`{"status":"CLEARED"}`),
	}

	m := InvoiceModelFromDomain(inv)
	assert.JSONEq(t, `[]`, string(m.ErrorMessages))
	assert.JSONEq(t, `["BR-KSA-08 buyer id missing"]`, string(m.WarningMessages))

	back := m.ToDomain()
	assert.Nil(t, back.ErrorMessages)
	assert.Equal(t, inv.WarningMessages, back.WarningMessages)
	assert.JSONEq(t, `{"status":"CLEARED"}`, string(back.AuthorityResponse))
	assert.Equal(t, inv.Status, back.Status)
	assert.True(t, inv.Total.Equal(back.Total))
}

func TestRawJSON_WrapsNonJSONBodies(t *testing.T) {
	assert.Nil(t, rawJSON(nil))
	assert.Equal(t, `"upstream timeout"`, string(rawJSON([]byte("upstream timeout"))))
	assert.Equal(t, `{"a":1}`, string(rawJSON([]byte(`{"a":1}`))))
}

func TestServiceModel_UnattachedLineHasNullInvoice(t *testing.T) {
	line, err := invoicing.NewService(invoicing.ServiceInput{
		Name:      "Consulting",
		UnitPrice: decimal.NewFromInt(100),
		Quantity:  decimal.NewFromInt(2),
	}, uuid.New())
	require.NoError(t, err)

	m := ServiceModelFromDomain(line)
	assert.Nil(t, m.InvoiceID)
	assert.Equal(t, "", m.ToDomain().InvoiceID)

	line.InvoiceID = "7"
	m = ServiceModelFromDomain(line)
	require.NotNil(t, m.InvoiceID)
	assert.Equal(t, "7", *m.InvoiceID)
	assert.True(t, m.ToDomain().TotalPrice.Equal(decimal.NewFromInt(200)))
}

func TestClientModel_MapsAddressAndTaxRegistration(t *testing.T) {
	client, err := partner.NewClient(uuid.New(), "Buyer Co",
		valueobject.PostalAddress{StreetName: "King Fahd Rd", CityName: "Riyadh", PostalZone: "12211"},
		valueobject.TaxRegistration{CompanyID: "310000000000003"},
		uuid.New())
	require.NoError(t, err)

	var m ClientModel
	m.FromDomain(client)
	assert.Equal(t, "SA", m.Address.CountryCode)
	assert.Equal(t, "VAT", m.TaxSchemeID)

	back := m.ToDomain()
	assert.Equal(t, client.Address, back.Address)
	assert.Equal(t, client.TaxRegistration, back.TaxRegistration)
}
