package organization

import "context"

// ProfileStore is the single-row store of the organization profile.
// Get returns shared.ErrNotFound until a profile has been created.
type ProfileStore interface {
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}

// OnboardingRepository persists onboarding requests
type OnboardingRepository interface {
	Create(ctx context.Context, onboarding *Onboarding) error
}
