package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps of uuid-keyed records
// (users, accounts, clients, items, service lines, onboardings). Invoices are
// keyed by their sequential counter and do not embed it.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
