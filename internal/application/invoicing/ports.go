package invoicing

import (
	"context"

	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/invoicing"
)

// ComplianceGateway submits documents to the e-invoicing authority.
// Implementations never return transport errors: failures are folded into a
// Result with status 500.
type ComplianceGateway interface {
	SubmitCreate(ctx context.Context, doc *invoicing.Document, egsClientName string) compliance.Result
	SubmitUpdate(ctx context.Context, doc *invoicing.Document, invoiceUUID, egsClientName string) compliance.Result
	SubmitDelete(ctx context.Context, invoiceUUID, egsClientName string) compliance.Result
}

// DocumentArchive stores the authority response of a submission and returns its key
type DocumentArchive interface {
	Archive(ctx context.Context, invoiceUUID string, body []byte) (string, error)
}

// NoopArchive discards archived responses
type NoopArchive struct{}

// Archive returns an empty key
func (NoopArchive) Archive(context.Context, string, []byte) (string, error) {
	return "", nil
}
