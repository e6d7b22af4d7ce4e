package invoicing

import (
	"context"

	"github.com/einvoice/backend/internal/domain/identity"
	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/partner"
)

// TransactionScope defines the interface for executing operations within a transaction.
type TransactionScope interface {
	// Execute runs fn within a database transaction. The transaction is rolled
	// back when fn returns an error and committed otherwise.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository an invoice
// operation writes through. All of them share the same transaction.
type TransactionalRepositories interface {
	Invoices() invoicing.InvoiceRepository
	Services() invoicing.ServiceRepository
	Counters() invoicing.CounterRepository
	Items() inventory.ItemRepository
	Links() partner.InvoiceLinkRepository
	Accounts() partner.AccountRepository
	Clients() partner.ClientRepository
	Users() identity.UserRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// This is useful for testing.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{Repos: repos}
}

// Execute runs the function against the wrapped repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

// Repositories is a plain TransactionalRepositories value
type Repositories struct {
	InvoiceRepo invoicing.InvoiceRepository
	ServiceRepo invoicing.ServiceRepository
	CounterRepo invoicing.CounterRepository
	ItemRepo    inventory.ItemRepository
	LinkRepo    partner.InvoiceLinkRepository
	AccountRepo partner.AccountRepository
	ClientRepo  partner.ClientRepository
	UserRepo    identity.UserRepository
}

func (r *Repositories) Invoices() invoicing.InvoiceRepository { return r.InvoiceRepo }
func (r *Repositories) Services() invoicing.ServiceRepository { return r.ServiceRepo }
func (r *Repositories) Counters() invoicing.CounterRepository { return r.CounterRepo }
func (r *Repositories) Items() inventory.ItemRepository { return r.ItemRepo }
func (r *Repositories) Links() partner.InvoiceLinkRepository { return r.LinkRepo }
func (r *Repositories) Accounts() partner.AccountRepository { return r.AccountRepo }
func (r *Repositories) Clients() partner.ClientRepository { return r.ClientRepo }
func (r *Repositories) Users() identity.UserRepository { return r.UserRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*Repositories)(nil)
)
