package persistence

import (
	"context"
	"time"

	"github.com/einvoice/backend/internal/domain/partner"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements partner.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *partner.Account) error {
	var model models.AccountModel
	model.FromDomain(account)
	return translateError(r.db.WithContext(ctx).Save(&model).Error)
}

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByAccount lists the clients of an account ordered by name
func (r *GormClientRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]*partner.Client, error) {
	var rows []models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("registration_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	clients := make([]*partner.Client, len(rows))
	for i := range rows {
		clients[i] = rows[i].ToDomain()
	}
	return clients, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	var model models.ClientModel
	model.FromDomain(client)
	return translateError(r.db.WithContext(ctx).Save(&model).Error)
}

// GormInvoiceLinkRepository implements partner.InvoiceLinkRepository using the
// account_invoices and client_invoices link tables
type GormInvoiceLinkRepository struct {
	db *gorm.DB
}

// NewGormInvoiceLinkRepository creates a new GormInvoiceLinkRepository
func NewGormInvoiceLinkRepository(db *gorm.DB) *GormInvoiceLinkRepository {
	return &GormInvoiceLinkRepository{db: db}
}

// LinkAccount adds the invoice to the account's list; existing links are kept
func (r *GormInvoiceLinkRepository) LinkAccount(ctx context.Context, accountID uuid.UUID, invoiceID string) error {
	link := models.AccountInvoiceModel{AccountID: accountID, InvoiceID: invoiceID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// UnlinkAccount removes the invoice from the account's list
func (r *GormInvoiceLinkRepository) UnlinkAccount(ctx context.Context, accountID uuid.UUID, invoiceID string) error {
	return r.db.WithContext(ctx).
		Where("account_id = ? AND invoice_id = ?", accountID, invoiceID).
		Delete(&models.AccountInvoiceModel{}).Error
}

// LinkClient adds the invoice to the client's list; existing links are kept
func (r *GormInvoiceLinkRepository) LinkClient(ctx context.Context, clientID uuid.UUID, invoiceID string) error {
	link := models.ClientInvoiceModel{ClientID: clientID, InvoiceID: invoiceID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// UnlinkClient removes the invoice from the client's list
func (r *GormInvoiceLinkRepository) UnlinkClient(ctx context.Context, clientID uuid.UUID, invoiceID string) error {
	return r.db.WithContext(ctx).
		Where("client_id = ? AND invoice_id = ?", clientID, invoiceID).
		Delete(&models.ClientInvoiceModel{}).Error
}

// AccountInvoices returns the invoice ids linked to an account in link order
func (r *GormInvoiceLinkRepository) AccountInvoices(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.AccountInvoiceModel{}).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Pluck("invoice_id", &ids).Error
	return ids, err
}

// ClientInvoices returns the invoice ids linked to a client in link order
func (r *GormInvoiceLinkRepository) ClientInvoices(ctx context.Context, clientID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.ClientInvoiceModel{}).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Pluck("invoice_id", &ids).Error
	return ids, err
}

var (
	_ partner.AccountRepository     = (*GormAccountRepository)(nil)
	_ partner.ClientRepository      = (*GormClientRepository)(nil)
	_ partner.InvoiceLinkRepository = (*GormInvoiceLinkRepository)(nil)
)
