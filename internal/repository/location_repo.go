package repository

import (
	"context"

	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Location, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]model.Location, error)
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return translate(r.db.WithContext(ctx).Create(l).Error, "location", l.Name)
}

func (r *locationRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	if err := conn(r.db, tx).WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err, "location", id)
	}
	return &l, nil
}

func (r *locationRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Location{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r *locationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&locations).Error
	return locations, err
}
