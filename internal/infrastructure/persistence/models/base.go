package models

import (
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel holds the columns every uuid-keyed table shares
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}
