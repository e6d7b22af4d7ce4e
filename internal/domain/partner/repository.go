package partner

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]*Client, error)
	Save(ctx context.Context, client *Client) error
}

// InvoiceLinkRepository maintains the account and client back-reference lists
// of invoices. Link is idempotent and Unlink of a missing link is a no-op.
type InvoiceLinkRepository interface {
	LinkAccount(ctx context.Context, accountID uuid.UUID, invoiceID string) error
	UnlinkAccount(ctx context.Context, accountID uuid.UUID, invoiceID string) error
	LinkClient(ctx context.Context, clientID uuid.UUID, invoiceID string) error
	UnlinkClient(ctx context.Context, clientID uuid.UUID, invoiceID string) error
	AccountInvoices(ctx context.Context, accountID uuid.UUID) ([]string, error)
	ClientInvoices(ctx context.Context, clientID uuid.UUID) ([]string, error)
}
