// Package organization holds the seller-side organization profile.
// Exactly one profile exists per deployment.
package organization

import (
	"strings"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
)

// ProfileID is the fixed identifier of the single organization profile
const ProfileID = "1"

// DefaultPartySchemeID is the party identification scheme used when none is set
const DefaultPartySchemeID = "CRN"

// Profile is the seller party registered with the compliance authority
type Profile struct {
	ID                 string
	PartyID            string
	PartySchemeID      string
	Address            valueobject.PostalAddress
	NationalAddress    string
	TaxRegistration    valueobject.TaxRegistration
	RegistrationName   string
	Logo               string
	Email              string
	Phone              string
	BusinessType       string
	OrganizationUnit   string
	IndustryType       string
	OnboardingComplete bool
	PlanType           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewProfile creates the organization profile
func NewProfile(registrationName string) (*Profile, error) {
	registrationName = strings.TrimSpace(registrationName)
	if registrationName == "" {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "Legal registration name is required")
	}
	now := time.Now()
	p := &Profile{
		ID:               ProfileID,
		PartySchemeID:    DefaultPartySchemeID,
		RegistrationName: registrationName,
		TaxRegistration:  valueobject.TaxRegistration{}.Normalized(),
		Address:          valueobject.PostalAddress{}.Normalized(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return p, nil
}

// SchemeID returns the party identification scheme, defaulting to CRN
func (p *Profile) SchemeID() string {
	if p.PartySchemeID == "" {
		return DefaultPartySchemeID
	}
	return p.PartySchemeID
}

// ProfilePatch lists the profile fields an upsert may change
type ProfilePatch struct {
	PartyID          *string
	PartySchemeID    *string
	Address          *valueobject.PostalAddress
	NationalAddress  *string
	TaxRegistration  *valueobject.TaxRegistration
	RegistrationName *string
	Email            *string
	Phone            *string
	BusinessType     *string
	OrganizationUnit *string
	IndustryType     *string
	PlanType         *string
}

// Apply writes the declared fields onto the profile
func (p *Profile) Apply(patch ProfilePatch) error {
	if patch.RegistrationName != nil {
		name := strings.TrimSpace(*patch.RegistrationName)
		if name == "" {
			return shared.NewDomainError(shared.CodeInvalidInput, "Legal registration name cannot be empty")
		}
		p.RegistrationName = name
	}
	if patch.PartyID != nil {
		p.PartyID = strings.TrimSpace(*patch.PartyID)
	}
	if patch.PartySchemeID != nil {
		p.PartySchemeID = strings.TrimSpace(*patch.PartySchemeID)
	}
	if patch.Address != nil {
		p.Address = patch.Address.Normalized()
	}
	if patch.NationalAddress != nil {
		p.NationalAddress = *patch.NationalAddress
	}
	if patch.TaxRegistration != nil {
		p.TaxRegistration = patch.TaxRegistration.Normalized()
	}
	if patch.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.BusinessType != nil {
		p.BusinessType = *patch.BusinessType
	}
	if patch.OrganizationUnit != nil {
		p.OrganizationUnit = *patch.OrganizationUnit
	}
	if patch.IndustryType != nil {
		p.IndustryType = *patch.IndustryType
	}
	if patch.PlanType != nil {
		p.PlanType = *patch.PlanType
	}
	p.UpdatedAt = time.Now()
	return nil
}

// SetLogo records the location of the uploaded logo
func (p *Profile) SetLogo(url string) {
	p.Logo = url
	p.UpdatedAt = time.Now()
}

// CompleteOnboarding marks the organization as registered with the authority
func (p *Profile) CompleteOnboarding() {
	p.OnboardingComplete = true
	p.UpdatedAt = time.Now()
}
