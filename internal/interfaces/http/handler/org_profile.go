package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	organizationapp "github.com/einvoice/backend/internal/application/organization"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// logoFormField is the multipart field carrying the logo upload
const logoFormField = "logo"

// ProfileService manages the organization profile
type ProfileService interface {
	Get(ctx context.Context) (*organizationapp.ProfileResponse, error)
	Create(ctx context.Context, req organizationapp.CreateProfileRequest) (*organizationapp.ProfileResponse, bool, error)
	Upsert(ctx context.Context, req organizationapp.UpdateProfileRequest) (*organizationapp.ProfileResponse, error)
	UploadLogo(ctx context.Context, filename, contentType string, data []byte) (*organizationapp.ProfileResponse, error)
	Onboard(ctx context.Context, req organizationapp.OnboardRequest) (*organizationapp.OnboardResult, error)
}

// OrgProfileHandler handles the organization profile endpoints
type OrgProfileHandler struct {
	BaseHandler
	profiles ProfileService
}

// NewOrgProfileHandler creates a new OrgProfileHandler
func NewOrgProfileHandler(profiles ProfileService) *OrgProfileHandler {
	return &OrgProfileHandler{profiles: profiles}
}

// Get godoc
//
//	@Summary	Get the organization profile
//	@Tags		org-profile
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Router		/org-profile [get]
func (h *OrgProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Create registers the organization profile. An existing profile is
// returned unchanged with 200.
func (h *OrgProfileHandler) Create(c *gin.Context) {
	var req organizationapp.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, created, err := h.profiles.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !created {
		h.SuccessWithMessage(c, "Org Profile already exists", profile)
		return
	}
	h.Created(c, "Org Profile created successfully", profile)
}

// Update changes the organization profile, creating it when absent
func (h *OrgProfileHandler) Update(c *gin.Context) {
	var req organizationapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Org Profile updated successfully", profile)
}

// UploadLogo godoc
//
//	@Summary	Upload the organization logo
//	@Tags		org-profile
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		logo	formData	file	true	"Logo image"
//	@Success	200		{object}	dto.Response
//	@Failure	400		{object}	dto.Response
//	@Router		/org-profile/logo [post]
func (h *OrgProfileHandler) UploadLogo(c *gin.Context) {
	file, err := c.FormFile(logoFormField)
	if err != nil {
		h.Error(c, http.StatusBadRequest, shared.CodeMissingFields, "Logo file is required")
		return
	}
	if file.Size > organizationapp.MaxLogoSize {
		h.Error(c, http.StatusBadRequest, shared.CodeInvalidInput,
			fmt.Sprintf("Logo exceeds the maximum size of %d bytes", organizationapp.MaxLogoSize))
		return
	}

	f, err := file.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, organizationapp.MaxLogoSize+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	profile, err := h.profiles.UploadLogo(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Logo uploaded successfully", profile)
}

// Onboard godoc
//
//	@Summary	Register the EGS unit with the authority
//	@Tags		org-profile
//	@Accept		json
//	@Produce	json
//	@Param		request	body		organization.OnboardRequest	true	"Onboarding form"
//	@Success	200		{object}	dto.Response
//	@Failure	409		{object}	dto.Response
//	@Failure	500		{object}	dto.Response
//	@Router		/org-profile/onboard [post]
func (h *OrgProfileHandler) Onboard(c *gin.Context) {
	var req organizationapp.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.profiles.Onboard(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Onboarding completed", result)
}
