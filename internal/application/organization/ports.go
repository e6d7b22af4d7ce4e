package organization

import (
	"context"

	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/organization"
)

// ObjectUploader stores uploaded files such as the organization logo
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// ObjectURL returns the stable URL under which an uploaded object is served
	ObjectURL(key string) string
}

// Onboarder registers an EGS unit with the e-invoicing authority.
// Transport failures are folded into a Result with status 500.
type Onboarder interface {
	Onboard(ctx context.Context, onboarding *organization.Onboarding) compliance.Result
}

// TransactionScope runs onboarding writes in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the stores written during onboarding
type TransactionalRepositories interface {
	Profiles() organization.ProfileStore
	Onboardings() organization.OnboardingRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// This is useful for testing.
type NoOpTransactionScope struct {
	ProfileStore   organization.ProfileStore
	OnboardingRepo organization.OnboardingRepository
}

// Execute runs the function against the wrapped stores
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Profiles() organization.ProfileStore { return s.ProfileStore }
func (s *NoOpTransactionScope) Onboardings() organization.OnboardingRepository {
	return s.OnboardingRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
