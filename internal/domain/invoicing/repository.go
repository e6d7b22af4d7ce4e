package invoicing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	Status    *InvoiceStatus
	ClientID  *uuid.UUID
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// InvoiceRepository defines the interface for invoice persistence.
// Lookups take the local sequence id.
type InvoiceRepository interface {
	// FindByID loads an invoice without its lines
	FindByID(ctx context.Context, id string) (*Invoice, error)

	// FindByIDForUpdate loads an invoice and locks its row for the enclosing transaction
	FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error)

	// FindAll returns a page of invoices and the total count
	FindAll(ctx context.Context, filter InvoiceFilter) ([]*Invoice, int64, error)

	// Create inserts a new invoice; duplicate ids surface as shared.ErrConflict
	Create(ctx context.Context, invoice *Invoice) error

	// Update saves an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice
	Delete(ctx context.Context, id string) error
}

// ServiceRepository defines the interface for line-item persistence
type ServiceRepository interface {
	// FindByInvoice returns the lines of an invoice in position order
	FindByInvoice(ctx context.Context, invoiceID string) ([]*Service, error)

	// CreateBatch inserts new lines
	CreateBatch(ctx context.Context, services []*Service) error

	// Update saves an existing line
	Update(ctx context.Context, service *Service) error

	// AttachToInvoice assigns lines to an invoice, numbering positions in the given order
	AttachToInvoice(ctx context.Context, invoiceID string, ids []uuid.UUID) error

	// DeleteByIDs removes lines
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// CounterRepository defines the interface for invoice counter persistence.
// It is also the builder's SequenceSource.
type CounterRepository interface {
	SequenceSource

	// Create records the counter value of a new invoice
	Create(ctx context.Context, counter *Counter) error

	// DeleteByInvoiceID removes the counter of an invoice
	DeleteByInvoiceID(ctx context.Context, invoiceID string) error
}
