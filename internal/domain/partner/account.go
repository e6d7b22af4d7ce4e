package partner

import (
	"strings"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Account is the business account that owns clients and invoices
type Account struct {
	shared.BaseEntity
	Name       string
	OwnerName  string
	OwnerEmail string
	Phone      string
	Country    string
	Address    string
	CreatorID  uuid.UUID
}

// NewAccount creates a new account
func NewAccount(name, ownerName, ownerEmail string, creatorID uuid.UUID) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "Account name is required")
	}
	return &Account{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		OwnerName:  strings.TrimSpace(ownerName),
		OwnerEmail: strings.ToLower(strings.TrimSpace(ownerEmail)),
		CreatorID:  creatorID,
	}, nil
}
