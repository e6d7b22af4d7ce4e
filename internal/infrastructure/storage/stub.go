package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	apporganization "github.com/einvoice/backend/internal/application/organization"
)

// StubObjectStorage keeps objects in memory. It stands in for S3 when storage
// is disabled and in tests.
type StubObjectStorage struct {
	// BaseURL prefixes generated object URLs.
	// Defaults to "https://storage.example.com" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StoredObject
}

// StoredObject is an object held by the stub
type StoredObject struct {
	Data        []byte
	ContentType string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]StoredObject),
	}
}

var _ apporganization.ObjectUploader = (*StubObjectStorage)(nil)

// Upload keeps a copy of data under storageKey
func (s *StubObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string]StoredObject)
	}
	s.objects[storageKey] = StoredObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// ObjectURL returns BaseURL joined with the key
func (s *StubObjectStorage) ObjectURL(storageKey string) string {
	return s.BaseURL + "/" + escapeKey(storageKey)
}

// GenerateDownloadURL returns an unsigned URL carrying the expiry as a query parameter
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.ObjectURL(storageKey) + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// Object returns a stored object
func (s *StubObjectStorage) Object(storageKey string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}
