package models

import (
	"github.com/einvoice/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(200);not null"`
	Email  string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Avatar string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Avatar:     m.Avatar,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.Avatar = u.Avatar
}

// UserModelFromDomain creates a persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
