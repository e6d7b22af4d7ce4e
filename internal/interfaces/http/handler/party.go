package handler

import (
	"context"

	partnerapp "github.com/einvoice/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PartyService registers and looks up accounts, clients and users
type PartyService interface {
	CreateAccount(ctx context.Context, req partnerapp.CreateAccountRequest) (*partnerapp.AccountResponse, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*partnerapp.AccountResponse, error)
	CreateClient(ctx context.Context, req partnerapp.CreateClientRequest) (*partnerapp.ClientResponse, error)
	GetClient(ctx context.Context, id uuid.UUID) (*partnerapp.ClientResponse, error)
	CreateUser(ctx context.Context, req partnerapp.CreateUserRequest) (*partnerapp.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*partnerapp.UserResponse, error)
}

// PartyHandler handles account, client and user endpoints
type PartyHandler struct {
	BaseHandler
	parties PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(parties PartyService) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// CreateAccount registers an account
func (h *PartyHandler) CreateAccount(c *gin.Context) {
	var req partnerapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.UserID == nil {
		req.UserID = actingUserID(c)
	}

	account, err := h.parties.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Account created successfully", account)
}

// GetAccount returns an account with its clients and invoices
func (h *PartyHandler) GetAccount(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.InvalidID(c, "account")
		return
	}
	account, err := h.parties.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CreateClient registers a client under an account
func (h *PartyHandler) CreateClient(c *gin.Context) {
	var req partnerapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.UserID == nil {
		req.UserID = actingUserID(c)
	}

	client, err := h.parties.CreateClient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Client created successfully", client)
}

// GetClient returns a client with its invoices
func (h *PartyHandler) GetClient(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.InvalidID(c, "client")
		return
	}
	client, err := h.parties.GetClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// CreateUser registers a user
func (h *PartyHandler) CreateUser(c *gin.Context) {
	var req partnerapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.parties.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "User created successfully", user)
}

// GetUser returns a user
func (h *PartyHandler) GetUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.InvalidID(c, "user")
		return
	}
	user, err := h.parties.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
