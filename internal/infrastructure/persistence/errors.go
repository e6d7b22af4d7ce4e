package persistence

import (
	"errors"

	"github.com/einvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto the domain taxonomy.
// ErrDuplicatedKey is only produced when the DB is opened with TranslateError.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrConflict
	default:
		return err
	}
}
