package persistence

import (
	"context"
	"strings"

	"github.com/einvoice/backend/internal/domain/identity"
	"github.com/einvoice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository stores operators in the users table
type GormUserRepository struct {
	db *gorm.DB
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail matches the normalized address that NewUser stores
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg any) (*identity.User, error) {
	var row models.UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.ToDomain(), nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return translateError(r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error)
}
