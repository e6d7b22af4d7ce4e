package persistence

import (
	"context"

	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its local id
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id string) (*invoicing.Invoice, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds an invoice and takes a row lock held until the
// enclosing transaction ends. SQLite ignores the locking clause.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id string) (*invoicing.Invoice, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormInvoiceRepository) find(db *gorm.DB, id string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	inv := model.ToDomain()

	var ids []uuid.UUID
	if err := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ServiceModel{}).
		Where("invoice_id = ?", id).
		Order("position ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	inv.ServiceIDs = ids
	return inv, nil
}

// FindAll returns a page of invoices, most recently updated first unless
// the filter names a whitelisted sort column
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter invoicing.InvoiceFilter) ([]*invoicing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	var rows []models.InvoiceModel
	order := orderClause(filter.SortBy, filter.SortOrder, InvoiceSortFields, "updated_at DESC")
	if err := query.Order(order).Order("id ASC").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*invoicing.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices, total, nil
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update saves every column of an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("id = ?", invoice.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an invoice and its lines
func (r *GormInvoiceRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("invoice_id = ?", id).Delete(&models.ServiceModel{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
