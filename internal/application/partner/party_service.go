package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/einvoice/backend/internal/domain/identity"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/domain/shared/valueobject"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartyService registers and looks up the accounts, clients and users that
// invoices refer to
type PartyService struct {
	accounts partner.AccountRepository
	clients  partner.ClientRepository
	links    partner.InvoiceLinkRepository
	users    identity.UserRepository
	logger   *zap.Logger
}

// NewPartyService creates a new PartyService
func NewPartyService(
	accounts partner.AccountRepository,
	clients partner.ClientRepository,
	links partner.InvoiceLinkRepository,
	users identity.UserRepository,
	logger *zap.Logger,
) *PartyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartyService{
		accounts: accounts,
		clients:  clients,
		links:    links,
		users:    users,
		logger:   logger,
	}
}

// CreateAccount registers a new account
func (s *PartyService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	creator, err := s.creator(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	account, err := partner.NewAccount(req.Name, req.OwnerName, req.OwnerEmail, creator)
	if err != nil {
		return nil, err
	}
	account.Phone = req.Phone
	account.Country = req.Country
	account.Address = req.Address

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Account created", zap.String("account_id", account.ID.String()))

	resp := ToAccountResponse(account, nil, nil)
	return &resp, nil
}

// GetAccount returns an account with its clients and invoice ids
func (s *PartyService) GetAccount(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Account not found")
	}
	clients, err := s.clients.FindByAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	clientIDs := make([]uuid.UUID, len(clients))
	for i, c := range clients {
		clientIDs[i] = c.ID
	}
	invoices, err := s.links.AccountInvoices(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToAccountResponse(account, clientIDs, invoices)
	return &resp, nil
}

// CreateClient registers a client under an existing account
func (s *PartyService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	if _, err := s.accounts.FindByID(ctx, req.AccountID); err != nil {
		return nil, notFound(err, "Account not found")
	}
	creator, err := s.creator(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	tax := valueobject.TaxRegistration{CompanyID: req.CompanyID, TaxSchemeID: req.TaxSchemeID}
	client, err := partner.NewClient(req.AccountID, req.RegistrationName, req.address(), tax, creator)
	if err != nil {
		return nil, err
	}
	client.Email = req.Email
	client.Phone = req.Phone

	if err := s.clients.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("save client: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("account_id", client.AccountID.String()),
	)

	resp := ToClientResponse(client, nil)
	return &resp, nil
}

// GetClient returns a client with its invoice ids
func (s *PartyService) GetClient(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Client not found")
	}
	invoices, err := s.links.ClientInvoices(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client, invoices)
	return &resp, nil
}

// CreateUser registers a user. Emails are unique.
func (s *PartyService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	user.Avatar = req.Avatar

	if _, err := s.users.FindByEmail(ctx, user.Email); err == nil {
		return nil, shared.NewDomainError(shared.CodeConflict, "User with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, shared.NewDomainError(shared.CodeConflict, "User with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetUser returns a user by id
func (s *PartyService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// creator resolves the optional acting user
func (s *PartyService) creator(ctx context.Context, id *uuid.UUID) (uuid.UUID, error) {
	if id == nil {
		return uuid.Nil, nil
	}
	user, err := s.users.FindByID(ctx, *id)
	if err != nil {
		return uuid.Nil, notFound(err, "User not found")
	}
	return user.ID, nil
}

func notFound(err error, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(shared.CodeNotFound, message)
	}
	return err
}
