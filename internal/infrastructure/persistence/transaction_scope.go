package persistence

import (
	"context"

	appinvoicing "github.com/einvoice/backend/internal/application/invoicing"
	apporganization "github.com/einvoice/backend/internal/application/organization"
	"github.com/einvoice/backend/internal/domain/identity"
	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/organization"
	"github.com/einvoice/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback writes through the same transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinvoicing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Invoices() invoicing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Services() invoicing.ServiceRepository {
	return NewGormServiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Counters() invoicing.CounterRepository {
	return NewGormCounterRepository(r.tx)
}

func (r *gormTransactionalRepositories) Items() inventory.ItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Links() partner.InvoiceLinkRepository {
	return NewGormInvoiceLinkRepository(r.tx)
}

func (r *gormTransactionalRepositories) Accounts() partner.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormTransactionalRepositories) Clients() partner.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinvoicing.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinvoicing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

// GormOnboardingScope runs organization onboarding in a GORM transaction
type GormOnboardingScope struct {
	db *gorm.DB
}

// NewGormOnboardingScope creates a new GormOnboardingScope
func NewGormOnboardingScope(db *gorm.DB) *GormOnboardingScope {
	return &GormOnboardingScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormOnboardingScope) Execute(ctx context.Context, fn func(repos apporganization.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOnboardingRepositories{tx: tx})
	})
}

type gormOnboardingRepositories struct {
	tx *gorm.DB
}

func (r *gormOnboardingRepositories) Profiles() organization.ProfileStore {
	return NewGormProfileStore(r.tx)
}

func (r *gormOnboardingRepositories) Onboardings() organization.OnboardingRepository {
	return NewGormOnboardingRepository(r.tx)
}

var (
	_ apporganization.TransactionScope          = (*GormOnboardingScope)(nil)
	_ apporganization.TransactionalRepositories = (*gormOnboardingRepositories)(nil)
)
