package identity

import (
	"context"
	"net/mail"
	"strings"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is an operator who creates and edits invoices
type User struct {
	shared.BaseEntity
	Name   string
	Email  string
	Avatar string
}

// NewUser creates a new user
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "User name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
	}, nil
}

// UserRepository looks up the operators recorded as creators and editors.
// Lookups that find nothing return shared.ErrNotFound.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create fails with shared.ErrConflict when the email is taken
	Create(ctx context.Context, user *User) error
}
