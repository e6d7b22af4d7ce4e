package partner

import (
	"testing"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	accountID := uuid.New()

	t.Run("normalizes address and tax registration", func(t *testing.T) {
		c, err := NewClient(accountID, " Acme Trading ", valueobject.PostalAddress{CityName: "Jeddah"}, valueobject.TaxRegistration{CompanyID: "399999999900003"}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "Acme Trading", c.RegistrationName)
		assert.Equal(t, "SA", c.Address.CountryCode)
		assert.Equal(t, "VAT", c.TaxRegistration.TaxSchemeID)
		assert.NotEqual(t, uuid.Nil, c.ID)
	})

	t.Run("requires registration name", func(t *testing.T) {
		_, err := NewClient(accountID, "  ", valueobject.PostalAddress{}, valueobject.TaxRegistration{}, uuid.New())
		assert.ErrorIs(t, err, shared.ErrMissingFields)
	})

	t.Run("requires account", func(t *testing.T) {
		_, err := NewClient(uuid.Nil, "Acme", valueobject.PostalAddress{}, valueobject.TaxRegistration{}, uuid.New())
		assert.ErrorIs(t, err, shared.ErrMissingFields)
	})
}

func TestNewAccount(t *testing.T) {
	a, err := NewAccount("Main", "Sara", " Sara@Example.com ", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", a.OwnerEmail)

	_, err = NewAccount("", "x", "y", uuid.New())
	assert.ErrorIs(t, err, shared.ErrMissingFields)
}
