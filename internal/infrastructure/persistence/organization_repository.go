package persistence

import (
	"context"

	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProfileStore implements organization.ProfileStore on a single-row table
type GormProfileStore struct {
	db *gorm.DB
}

// NewGormProfileStore creates a new GormProfileStore
func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{db: db}
}

// Get returns the organization profile
func (s *GormProfileStore) Get(ctx context.Context) (*organization.Profile, error) {
	var model models.OrganizationProfileModel
	if err := s.db.WithContext(ctx).Where("id = ?", organization.ProfileID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save writes the profile under the fixed profile id
func (s *GormProfileStore) Save(ctx context.Context, profile *organization.Profile) error {
	profile.ID = organization.ProfileID
	var model models.OrganizationProfileModel
	model.FromDomain(profile)
	return translateError(s.db.WithContext(ctx).Save(&model).Error)
}

// GormOnboardingRepository implements organization.OnboardingRepository using GORM
type GormOnboardingRepository struct {
	db *gorm.DB
}

// NewGormOnboardingRepository creates a new GormOnboardingRepository
func NewGormOnboardingRepository(db *gorm.DB) *GormOnboardingRepository {
	return &GormOnboardingRepository{db: db}
}

// Create inserts an onboarding request. A reused EGS name, VAT number or
// email is a conflict.
func (r *GormOnboardingRepository) Create(ctx context.Context, onboarding *organization.Onboarding) error {
	var model models.OnboardingModel
	model.FromDomain(onboarding)
	return translateError(r.db.WithContext(ctx).Create(&model).Error)
}

var (
	_ organization.ProfileStore         = (*GormProfileStore)(nil)
	_ organization.OnboardingRepository = (*GormOnboardingRepository)(nil)
)
