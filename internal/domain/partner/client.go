package partner

import (
	"strings"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Client is the buyer party of an invoice
type Client struct {
	shared.BaseEntity
	AccountID        uuid.UUID
	RegistrationName string
	Address          valueobject.PostalAddress
	TaxRegistration  valueobject.TaxRegistration
	Email            string
	Phone            string
	CreatorID        uuid.UUID
}

// NewClient creates a client under an account
func NewClient(accountID uuid.UUID, registrationName string, address valueobject.PostalAddress, tax valueobject.TaxRegistration, creatorID uuid.UUID) (*Client, error) {
	registrationName = strings.TrimSpace(registrationName)
	if registrationName == "" {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "Client registration name is required")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "Client account is required")
	}
	return &Client{
		BaseEntity:       shared.NewBaseEntity(),
		AccountID:        accountID,
		RegistrationName: registrationName,
		Address:          address.Normalized(),
		TaxRegistration:  tax.Normalized(),
		CreatorID:        creatorID,
	}, nil
}
