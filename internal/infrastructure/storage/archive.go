package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	appinvoicing "github.com/einvoice/backend/internal/application/invoicing"
)

// ObjectStore is the storage backend an archive writes to
type ObjectStore interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ResponseArchive keeps every accepted authority response as a JSON object
// under invoices/{uuid}/{unix-nano}.json
type ResponseArchive struct {
	store ObjectStore
	now   func() time.Time
}

// NewResponseArchive creates a ResponseArchive on store
func NewResponseArchive(store ObjectStore) *ResponseArchive {
	return &ResponseArchive{store: store, now: time.Now}
}

// Archive uploads body and returns its storage key
func (a *ResponseArchive) Archive(ctx context.Context, invoiceUUID string, body []byte) (string, error) {
	if invoiceUUID == "" {
		return "", errors.New("invoice uuid is required")
	}
	key := fmt.Sprintf("invoices/%s/%d.json", invoiceUUID, a.now().UnixNano())
	if err := a.store.Upload(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// Link returns a temporary download URL for an archived response
func (a *ResponseArchive) Link(ctx context.Context, key string) (string, error) {
	u, _, err := a.store.GenerateDownloadURL(ctx, key, 0)
	return u, err
}

var _ appinvoicing.DocumentArchive = (*ResponseArchive)(nil)
