package persistence

import (
	"context"

	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormServiceRepository implements invoicing.ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByInvoice returns the lines of an invoice in position order
func (r *GormServiceRepository) FindByInvoice(ctx context.Context, invoiceID string) ([]*invoicing.Service, error) {
	var rows []models.ServiceModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	services := make([]*invoicing.Service, len(rows))
	for i := range rows {
		services[i] = rows[i].ToDomain()
	}
	return services, nil
}

// CreateBatch inserts new lines
func (r *GormServiceRepository) CreateBatch(ctx context.Context, services []*invoicing.Service) error {
	if len(services) == 0 {
		return nil
	}
	rows := make([]*models.ServiceModel, len(services))
	for i, s := range services {
		rows[i] = models.ServiceModelFromDomain(s)
	}
	return translateError(r.db.WithContext(ctx).Create(rows).Error)
}

// Update saves an existing line
func (r *GormServiceRepository) Update(ctx context.Context, service *invoicing.Service) error {
	model := models.ServiceModelFromDomain(service)
	result := r.db.WithContext(ctx).Model(&models.ServiceModel{}).
		Where("id = ?", service.ID).
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

// AttachToInvoice assigns lines to an invoice, numbering positions in the given order
func (r *GormServiceRepository) AttachToInvoice(ctx context.Context, invoiceID string, ids []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	for position, id := range ids {
		result := db.Model(&models.ServiceModel{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"invoice_id": invoiceID,
				"position":   position,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
	}
	return nil
}

// DeleteByIDs removes lines
func (r *GormServiceRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ServiceModel{}).Error
}

var _ invoicing.ServiceRepository = (*GormServiceRepository)(nil)
