package repository

import (
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/pkg/pg"
)

type UserEntity struct {
	pg.Model
	Name         string `db:"name"          gorm:"column:name;not null"`
	Email        string `db:"email"         gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string `db:"password_hash" gorm:"column:password_hash;not null"`
	IsActive     bool   `db:"is_active"     gorm:"column:is_active;not null"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	return &UserEntity{
		Model:        pg.Model{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
