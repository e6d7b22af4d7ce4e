package organization

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxLogoSize is the largest accepted logo upload in bytes
const MaxLogoSize = 2 << 20

var logoContentTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ProfileService manages the organization profile and its onboarding
type ProfileService struct {
	profiles  organization.ProfileStore
	txScope   TransactionScope
	onboarder Onboarder
	uploader  ObjectUploader
	logger    *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profiles organization.ProfileStore,
	txScope TransactionScope,
	onboarder Onboarder,
	uploader ObjectUploader,
	logger *zap.Logger,
) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		profiles:  profiles,
		txScope:   txScope,
		onboarder: onboarder,
		uploader:  uploader,
		logger:    logger,
	}
}

// Get returns the organization profile
func (s *ProfileService) Get(ctx context.Context) (*ProfileResponse, error) {
	profile, err := s.load(ctx, s.profiles)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// Create registers the organization profile. When a profile already exists
// it is returned unchanged and created is false.
func (s *ProfileService) Create(ctx context.Context, req CreateProfileRequest) (resp *ProfileResponse, created bool, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "org_profile", "create")
	defer span.End()

	existing, err := s.profiles.Get(ctx)
	switch {
	case err == nil:
		out := ToProfileResponse(existing)
		return &out, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		telemetry.RecordError(span, err)
		return nil, false, fmt.Errorf("load organization profile: %w", err)
	}

	profile, err := organization.NewProfile(req.CompanyLegalName)
	if err != nil {
		return nil, false, err
	}
	if err := profile.Apply(req.patch()); err != nil {
		return nil, false, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, false, shared.NewDomainError(shared.CodeConflict, "Duplicate entry detected")
		}
		telemetry.RecordError(span, err)
		return nil, false, fmt.Errorf("save organization profile: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Organization profile created",
		zap.String("registration_name", profile.RegistrationName),
	)

	out := ToProfileResponse(profile)
	return &out, true, nil
}

// Upsert applies the declared fields, creating the profile first when none
// exists. Creating requires the legal registration name.
func (s *ProfileService) Upsert(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "org_profile", "upsert")
	defer span.End()

	profile, err := s.profiles.Get(ctx)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		name := present(req.PartyLegalEntityRegistrationName)
		if name == nil {
			return nil, shared.NewDomainError(shared.CodeMissingFields,
				"Missing required fields: partyLegalEntityRegistrationName")
		}
		if profile, err = organization.NewProfile(*name); err != nil {
			return nil, err
		}
	case err != nil:
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load organization profile: %w", err)
	}

	if err := profile.Apply(req.patch(profile)); err != nil {
		return nil, err
	}
	// The flag only ever moves forward through this path.
	if req.OnboardingComplete != nil && *req.OnboardingComplete {
		profile.CompleteOnboarding()
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, shared.NewDomainError(shared.CodeConflict, "unique keys already exists")
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save organization profile: %w", err)
	}

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// UploadLogo stores an image in object storage and records its URL on the profile
func (s *ProfileService) UploadLogo(ctx context.Context, filename, contentType string, data []byte) (*ProfileResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "org_profile", "upload_logo")
	defer span.End()

	if len(data) == 0 {
		return nil, shared.NewDomainError(shared.CodeMissingFields, "Logo file is required")
	}
	if len(data) > MaxLogoSize {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Logo exceeds the maximum size of 2 MB")
	}
	ext, err := logoExtension(filename, contentType)
	if err != nil {
		return nil, err
	}

	profile, err := s.load(ctx, s.profiles)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("org-profile/logo-%d%s", time.Now().UnixNano(), ext)
	if err := s.uploader.Upload(ctx, key, data, contentType); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("upload logo: %w", err)
	}
	profile.SetLogo(s.uploader.ObjectURL(key))
	if err := s.profiles.Save(ctx, profile); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save organization profile: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Organization logo uploaded", zap.String("storage_key", key))

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// Onboard records the onboarding request and registers the EGS unit with the
// authority. A refusal rolls the record back; acceptance marks the profile
// as onboarded.
func (s *ProfileService) Onboard(ctx context.Context, req OnboardRequest) (*OnboardResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "org_profile", "onboard")
	defer span.End()

	onboarding := req.toDomain()
	if err := onboarding.Validate(); err != nil {
		return nil, err
	}
	onboarding.BaseEntity = shared.NewBaseEntity()
	telemetry.SetAttributes(span, telemetry.SpanAttrEGSClient, onboarding.EGSClientName)
	log := logger.Enrich(ctx, s.logger)

	var result *OnboardResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		profile, err := s.load(ctx, repos.Profiles())
		if err != nil {
			return err
		}
		if err := repos.Onboardings().Create(ctx, onboarding); err != nil {
			if errors.Is(err, shared.ErrConflict) {
				return shared.NewDomainError(shared.CodeConflict,
					"EGS client name, VAT registration number or email is already onboarded")
			}
			return fmt.Errorf("save onboarding: %w", err)
		}

		res := s.onboarder.Onboard(ctx, onboarding)
		telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, res.Status)
		if !res.Succeeded() {
			log.Error("EGS onboarding refused by authority",
				zap.String("egs_client_name", onboarding.EGSClientName),
				zap.Int("status", res.Status),
			)
			return compliance.NewUpstreamError(shared.CodeUpstreamSubmissionFailed,
				shared.ErrUpstreamSubmissionFailed.Message, res)
		}

		profile.CompleteOnboarding()
		if err := repos.Profiles().Save(ctx, profile); err != nil {
			return fmt.Errorf("save organization profile: %w", err)
		}
		result = &OnboardResult{Profile: ToProfileResponse(profile), Response: res.Body()}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	log.Info("EGS client onboarded", zap.String("egs_client_name", onboarding.EGSClientName))
	telemetry.SetOK(span)
	return result, nil
}

func (s *ProfileService) load(ctx context.Context, store organization.ProfileStore) (*organization.Profile, error) {
	profile, err := store.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Organization profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load organization profile: %w", err)
	}
	return profile, nil
}

// logoExtension picks the stored file extension, preferring the one of the
// uploaded file name when it agrees with the content type.
func logoExtension(filename, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Logo content type is invalid")
	}
	ext, ok := logoContentTypes[mediaType]
	if !ok {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Logo must be a PNG, JPEG, GIF, WebP or SVG image")
	}
	given := strings.ToLower(filepath.Ext(filename))
	if given == ".jpeg" && mediaType == "image/jpeg" {
		return given, nil
	}
	if given != "" && given != ext {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Logo file extension does not match its content type")
	}
	return ext, nil
}
