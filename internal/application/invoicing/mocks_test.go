package invoicing

import (
	"context"
	"sort"
	"sync"

	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/identity"
	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockItemRepository is a mock implementation of inventory.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByCode(ctx context.Context, code string) (*inventory.Item, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*inventory.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

// MockGateway is a mock implementation of ComplianceGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SubmitCreate(ctx context.Context, doc *invoicing.Document, egsClientName string) compliance.Result {
	args := m.Called(ctx, doc, egsClientName)
	return args.Get(0).(compliance.Result)
}

func (m *MockGateway) SubmitUpdate(ctx context.Context, doc *invoicing.Document, invoiceUUID, egsClientName string) compliance.Result {
	args := m.Called(ctx, doc, invoiceUUID, egsClientName)
	return args.Get(0).(compliance.Result)
}

func (m *MockGateway) SubmitDelete(ctx context.Context, invoiceUUID, egsClientName string) compliance.Result {
	args := m.Called(ctx, invoiceUUID, egsClientName)
	return args.Get(0).(compliance.Result)
}

// memStore is an in-memory backing store for every repository the
// lifecycle engine uses. It does not roll back; rollback is covered by the
// persistence tests against SQLite.
type memStore struct {
	mu       sync.Mutex
	invoices map[string]*invoicing.Invoice
	services map[uuid.UUID]*invoicing.Service
	counters map[string]*invoicing.Counter
	items    map[string]*inventory.Item
	accounts map[uuid.UUID]*partner.Account
	clients  map[uuid.UUID]*partner.Client
	users    map[uuid.UUID]*identity.User
	links    map[string]bool
	profile  *organization.Profile
}

func newMemStore() *memStore {
	return &memStore{
		invoices: make(map[string]*invoicing.Invoice),
		services: make(map[uuid.UUID]*invoicing.Service),
		counters: make(map[string]*invoicing.Counter),
		items:    make(map[string]*inventory.Item),
		accounts: make(map[uuid.UUID]*partner.Account),
		clients:  make(map[uuid.UUID]*partner.Client),
		users:    make(map[uuid.UUID]*identity.User),
		links:    make(map[string]bool),
	}
}

func (s *memStore) repositories() *Repositories {
	return &Repositories{
		InvoiceRepo: memInvoices{s},
		ServiceRepo: memServices{s},
		CounterRepo: memCounters{s},
		ItemRepo:    memItems{s},
		LinkRepo:    memLinks{s},
		AccountRepo: memAccounts{s},
		ClientRepo:  memClients{s},
		UserRepo:    memUsers{s},
	}
}

func (s *memStore) stock(code string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[code].CurrentStock
}

func (s *memStore) hasLink(kind string, id uuid.UUID, invoiceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links[kind+":"+id.String()+":"+invoiceID]
}

type memInvoices struct{ s *memStore }

func (r memInvoices) FindByID(_ context.Context, id string) (*invoicing.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := inv.Clone()
	c.Services = nil
	return c, nil
}

func (r memInvoices) FindByIDForUpdate(ctx context.Context, id string) (*invoicing.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r memInvoices) FindAll(_ context.Context, filter invoicing.InvoiceFilter) ([]*invoicing.Invoice, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*invoicing.Invoice
	for _, inv := range r.s.invoices {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		if filter.ClientID != nil && inv.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, inv.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r memInvoices) Create(_ context.Context, inv *invoicing.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; ok {
		return shared.ErrConflict
	}
	r.s.invoices[inv.ID] = inv.Clone()
	return nil
}

func (r memInvoices) Update(_ context.Context, inv *invoicing.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return shared.ErrNotFound
	}
	r.s.invoices[inv.ID] = inv.Clone()
	return nil
}

func (r memInvoices) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	for sid, svc := range r.s.services {
		if svc.InvoiceID == id {
			delete(r.s.services, sid)
		}
	}
	return nil
}

type memServices struct{ s *memStore }

func (r memServices) FindByInvoice(_ context.Context, invoiceID string) ([]*invoicing.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*invoicing.Service
	for _, svc := range r.s.services {
		if svc.InvoiceID == invoiceID {
			c := *svc
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r memServices) CreateBatch(_ context.Context, services []*invoicing.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, svc := range services {
		c := *svc
		r.s.services[svc.ID] = &c
	}
	return nil
}

func (r memServices) Update(_ context.Context, svc *invoicing.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[svc.ID]; !ok {
		return shared.ErrNotFound
	}
	c := *svc
	r.s.services[svc.ID] = &c
	return nil
}

func (r memServices) AttachToInvoice(_ context.Context, invoiceID string, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for pos, id := range ids {
		svc, ok := r.s.services[id]
		if !ok {
			return shared.ErrNotFound
		}
		svc.InvoiceID = invoiceID
		svc.Position = pos
	}
	return nil
}

func (r memServices) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.services, id)
	}
	return nil
}

type memCounters struct{ s *memStore }

func (r memCounters) NextInvoiceNumber(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.invoices))
	for id := range r.s.invoices {
		ids = append(ids, id)
	}
	return invoicing.NextSequenceNumber(ids), nil
}

func (r memCounters) NextCounterValue(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var highest int64
	for _, c := range r.s.counters {
		highest = max(highest, c.CounterValue)
	}
	return highest + 1, nil
}

func (r memCounters) CounterValue(_ context.Context, invoiceID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.counters[invoiceID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return c.CounterValue, nil
}

func (r memCounters) Create(_ context.Context, counter *invoicing.Counter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *counter
	r.s.counters[counter.InvoiceID] = &c
	return nil
}

func (r memCounters) DeleteByInvoiceID(_ context.Context, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.counters, invoiceID)
	return nil
}

type memItems struct{ s *memStore }

func (r memItems) FindByID(_ context.Context, id uuid.UUID) (*inventory.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.items {
		if item.ID == id {
			c := *item
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memItems) FindByCode(_ context.Context, code string) (*inventory.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r memItems) FindAll(context.Context, inventory.ItemFilter) ([]*inventory.Item, int64, error) {
	return nil, 0, nil
}

func (r memItems) CountByCodePrefix(context.Context, string) (int64, error) {
	return 0, nil
}

func (r memItems) Save(_ context.Context, item *inventory.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *item
	r.s.items[item.Code] = &c
	return nil
}

func (r memItems) Delete(context.Context, uuid.UUID) error {
	return nil
}

func (r memItems) DecrementStock(_ context.Context, id uuid.UUID, quantity decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.items {
		if item.ID == id {
			if item.CurrentStock.LessThan(quantity) {
				return false, nil
			}
			item.CurrentStock = item.CurrentStock.Sub(quantity)
			return true, nil
		}
	}
	return false, nil
}

func (r memItems) IncrementStock(_ context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.items {
		if item.ID == id {
			item.CurrentStock = item.CurrentStock.Add(quantity)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memLinks struct{ s *memStore }

func (r memLinks) set(kind string, id uuid.UUID, invoiceID string, on bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := kind + ":" + id.String() + ":" + invoiceID
	if on {
		r.s.links[key] = true
	} else {
		delete(r.s.links, key)
	}
}

func (r memLinks) LinkAccount(_ context.Context, accountID uuid.UUID, invoiceID string) error {
	r.set("account", accountID, invoiceID, true)
	return nil
}

func (r memLinks) UnlinkAccount(_ context.Context, accountID uuid.UUID, invoiceID string) error {
	r.set("account", accountID, invoiceID, false)
	return nil
}

func (r memLinks) LinkClient(_ context.Context, clientID uuid.UUID, invoiceID string) error {
	r.set("client", clientID, invoiceID, true)
	return nil
}

func (r memLinks) UnlinkClient(_ context.Context, clientID uuid.UUID, invoiceID string) error {
	r.set("client", clientID, invoiceID, false)
	return nil
}

func (r memLinks) AccountInvoices(context.Context, uuid.UUID) ([]string, error) {
	return nil, nil
}

func (r memLinks) ClientInvoices(context.Context, uuid.UUID) ([]string, error) {
	return nil, nil
}

type memAccounts struct{ s *memStore }

func (r memAccounts) FindByID(_ context.Context, id uuid.UUID) (*partner.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r memAccounts) Save(_ context.Context, a *partner.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accounts[a.ID] = a
	return nil
}

type memClients struct{ s *memStore }

func (r memClients) FindByID(_ context.Context, id uuid.UUID) (*partner.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r memClients) FindByAccount(context.Context, uuid.UUID) ([]*partner.Client, error) {
	return nil, nil
}

func (r memClients) Save(_ context.Context, c *partner.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = c
	return nil
}

type memUsers struct{ s *memStore }

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r memUsers) FindByEmail(context.Context, string) (*identity.User, error) {
	return nil, shared.ErrNotFound
}

func (r memUsers) Create(_ context.Context, u *identity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = u
	return nil
}

type memProfiles struct{ s *memStore }

func (r memProfiles) Get(context.Context) (*organization.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.profile == nil {
		return nil, shared.ErrNotFound
	}
	return r.s.profile, nil
}

func (r memProfiles) Save(_ context.Context, p *organization.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profile = p
	return nil
}
