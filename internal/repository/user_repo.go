package repository

import (
	"context"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID only returns active users.
func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("active = true").First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	// Accept username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = LOWER(?)", username, username).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "user", username)
	}
	return &u, nil
}
