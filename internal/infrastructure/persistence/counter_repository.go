package persistence

import (
	"context"

	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCounterRepository implements invoicing.CounterRepository using GORM.
// It also serves the builder as its SequenceSource.
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// NextInvoiceNumber returns the smallest unused positive invoice id
func (r *GormCounterRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	return invoicing.NextSequenceNumber(ids), nil
}

// NextCounterValue returns max(counter_value)+1
func (r *GormCounterRepository) NextCounterValue(ctx context.Context) (int64, error) {
	var current int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceCounterModel{}).
		Select("COALESCE(MAX(counter_value), 0)").
		Scan(&current).Error; err != nil {
		return 0, err
	}
	return current + 1, nil
}

// CounterValue returns the counter value recorded for an invoice
func (r *GormCounterRepository) CounterValue(ctx context.Context, invoiceID string) (int64, error) {
	var model models.InvoiceCounterModel
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&model).Error; err != nil {
		return 0, translateError(err)
	}
	return model.CounterValue, nil
}

// Create records the counter value of a new invoice
func (r *GormCounterRepository) Create(ctx context.Context, counter *invoicing.Counter) error {
	var model models.InvoiceCounterModel
	model.FromDomain(counter)
	return translateError(r.db.WithContext(ctx).Create(&model).Error)
}

// DeleteByInvoiceID removes the counter of an invoice; a missing counter is not an error
func (r *GormCounterRepository) DeleteByInvoiceID(ctx context.Context, invoiceID string) error {
	return r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceCounterModel{}).Error
}

var _ invoicing.CounterRepository = (*GormCounterRepository)(nil)
