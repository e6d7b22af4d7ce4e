package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	inventoryapp "github.com/einvoice/backend/internal/application/inventory"
	invoicingapp "github.com/einvoice/backend/internal/application/invoicing"
	organizationapp "github.com/einvoice/backend/internal/application/organization"
	partnerapp "github.com/einvoice/backend/internal/application/partner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func rawBody(s string) io.Reader {
	return strings.NewReader(s)
}

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Create(ctx context.Context, req invoicingapp.CreateInvoiceRequest) (*invoicingapp.InvoiceDetailResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceDetailResponse), args.Error(1)
}

func (m *mockInvoiceService) Update(ctx context.Context, id string, req invoicingapp.UpdateInvoiceRequest) (*invoicingapp.InvoiceDetailResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceDetailResponse), args.Error(1)
}

func (m *mockInvoiceService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvoiceService) Get(ctx context.Context, id string) (*invoicingapp.InvoiceDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceDetailResponse), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, filter invoicingapp.ListInvoicesFilter) (*invoicingapp.InvoiceListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceListResult), args.Error(1)
}

func (m *mockInvoiceService) ChangeStatus(ctx context.Context, id string, req invoicingapp.ChangeStatusRequest) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

type mockArchiveLinker struct {
	mock.Mock
}

func (m *mockArchiveLinker) Link(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) Create(ctx context.Context, req inventoryapp.CreateItemRequest) (*inventoryapp.ItemResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) GetByID(ctx context.Context, id uuid.UUID) (*inventoryapp.ItemResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) List(ctx context.Context, filter inventoryapp.ListItemsFilter) (*inventoryapp.ItemListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ItemListResult), args.Error(1)
}

func (m *mockItemService) Update(ctx context.Context, id uuid.UUID, req inventoryapp.UpdateItemRequest) (*inventoryapp.ItemResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ItemResponse), args.Error(1)
}

func (m *mockItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProfileService struct {
	mock.Mock
}

func (m *mockProfileService) Get(ctx context.Context) (*organizationapp.ProfileResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organizationapp.ProfileResponse), args.Error(1)
}

func (m *mockProfileService) Create(ctx context.Context, req organizationapp.CreateProfileRequest) (*organizationapp.ProfileResponse, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*organizationapp.ProfileResponse), args.Bool(1), args.Error(2)
}

func (m *mockProfileService) Upsert(ctx context.Context, req organizationapp.UpdateProfileRequest) (*organizationapp.ProfileResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organizationapp.ProfileResponse), args.Error(1)
}

func (m *mockProfileService) UploadLogo(ctx context.Context, filename, contentType string, data []byte) (*organizationapp.ProfileResponse, error) {
	args := m.Called(ctx, filename, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organizationapp.ProfileResponse), args.Error(1)
}

func (m *mockProfileService) Onboard(ctx context.Context, req organizationapp.OnboardRequest) (*organizationapp.OnboardResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organizationapp.OnboardResult), args.Error(1)
}

type mockPartyService struct {
	mock.Mock
}

func (m *mockPartyService) CreateAccount(ctx context.Context, req partnerapp.CreateAccountRequest) (*partnerapp.AccountResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.AccountResponse), args.Error(1)
}

func (m *mockPartyService) GetAccount(ctx context.Context, id uuid.UUID) (*partnerapp.AccountResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.AccountResponse), args.Error(1)
}

func (m *mockPartyService) CreateClient(ctx context.Context, req partnerapp.CreateClientRequest) (*partnerapp.ClientResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.ClientResponse), args.Error(1)
}

func (m *mockPartyService) GetClient(ctx context.Context, id uuid.UUID) (*partnerapp.ClientResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.ClientResponse), args.Error(1)
}

func (m *mockPartyService) CreateUser(ctx context.Context, req partnerapp.CreateUserRequest) (*partnerapp.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.UserResponse), args.Error(1)
}

func (m *mockPartyService) GetUser(ctx context.Context, id uuid.UUID) (*partnerapp.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.UserResponse), args.Error(1)
}
