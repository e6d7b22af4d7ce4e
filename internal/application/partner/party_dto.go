package partner

import (
	"time"

	"github.com/einvoice/backend/internal/domain/identity"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name       string     `json:"name" binding:"required,max=200"`
	OwnerName  string     `json:"owner_name" binding:"max=200"`
	OwnerEmail string     `json:"owner_email" binding:"omitempty,email"`
	Phone      string     `json:"phone" binding:"max=50"`
	Country    string     `json:"country" binding:"max=100"`
	Address    string     `json:"address" binding:"max=500"`
	UserID     *uuid.UUID `json:"userId"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	OwnerName  string      `json:"owner_name,omitempty"`
	OwnerEmail string      `json:"owner_email,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Country    string      `json:"country,omitempty"`
	Address    string      `json:"address,omitempty"`
	Creator    uuid.UUID   `json:"creator"`
	Clients    []uuid.UUID `json:"clients"`
	Invoices   []string    `json:"invoices"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// ToAccountResponse converts an account with its back-references
func ToAccountResponse(a *partner.Account, clients []uuid.UUID, invoices []string) AccountResponse {
	if clients == nil {
		clients = []uuid.UUID{}
	}
	if invoices == nil {
		invoices = []string{}
	}
	return AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		OwnerName:  a.OwnerName,
		OwnerEmail: a.OwnerEmail,
		Phone:      a.Phone,
		Country:    a.Country,
		Address:    a.Address,
		Creator:    a.CreatorID,
		Clients:    clients,
		Invoices:   invoices,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// CreateClientRequest represents a request to create a client under an account
type CreateClientRequest struct {
	AccountID           uuid.UUID  `json:"account" binding:"required"`
	RegistrationName    string     `json:"registrationName" binding:"required,max=300"`
	StreetName          string     `json:"streetName"`
	BuildingNumber      string     `json:"buildingNumber"`
	CitySubdivisionName string     `json:"citySubdivisionName"`
	CityName            string     `json:"cityName"`
	PostalZone          string     `json:"postalZone"`
	CountryCode         string     `json:"countryIdentificationCode" binding:"omitempty,len=2"`
	CompanyID           string     `json:"partyTaxSchemeCompanyID"`
	TaxSchemeID         string     `json:"partyTaxSchemeTaxSchemeId"`
	Email               string     `json:"email" binding:"omitempty,email"`
	Phone               string     `json:"phoneNumber"`
	UserID              *uuid.UUID `json:"userId"`
}

func (r CreateClientRequest) address() valueobject.PostalAddress {
	return valueobject.PostalAddress{
		StreetName:          r.StreetName,
		BuildingNumber:      r.BuildingNumber,
		CitySubdivisionName: r.CitySubdivisionName,
		CityName:            r.CityName,
		PostalZone:          r.PostalZone,
		CountryCode:         r.CountryCode,
	}
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID                  uuid.UUID `json:"id"`
	Account             uuid.UUID `json:"account"`
	RegistrationName    string    `json:"registrationName"`
	StreetName          string    `json:"streetName"`
	BuildingNumber      string    `json:"buildingNumber"`
	CitySubdivisionName string    `json:"citySubdivisionName"`
	CityName            string    `json:"cityName"`
	PostalZone          string    `json:"postalZone"`
	CountryCode         string    `json:"countryIdentificationCode"`
	CompanyID           string    `json:"partyTaxSchemeCompanyID"`
	TaxSchemeID         string    `json:"partyTaxSchemeTaxSchemeId"`
	Email               string    `json:"email,omitempty"`
	Phone               string    `json:"phoneNumber,omitempty"`
	Creator             uuid.UUID `json:"creator"`
	Invoices            []string  `json:"invoices"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ToClientResponse converts a client with its invoice back-references
func ToClientResponse(c *partner.Client, invoices []string) ClientResponse {
	if invoices == nil {
		invoices = []string{}
	}
	return ClientResponse{
		ID:                  c.ID,
		Account:             c.AccountID,
		RegistrationName:    c.RegistrationName,
		StreetName:          c.Address.StreetName,
		BuildingNumber:      c.Address.BuildingNumber,
		CitySubdivisionName: c.Address.CitySubdivisionName,
		CityName:            c.Address.CityName,
		PostalZone:          c.Address.PostalZone,
		CountryCode:         c.Address.CountryCode,
		CompanyID:           c.TaxRegistration.CompanyID,
		TaxSchemeID:         c.TaxRegistration.TaxSchemeID,
		Email:               c.Email,
		Phone:               c.Phone,
		Creator:             c.CreatorID,
		Invoices:            invoices,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// CreateUserRequest represents a request to register a user
type CreateUserRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Email  string `json:"email" binding:"required,email"`
	Avatar string `json:"avatar" binding:"omitempty,url"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
