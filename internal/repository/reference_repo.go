package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourlog/internal/model"
)

// ReferenceEntry is satisfied by the lookup tables (police stations, ports)
type ReferenceEntry interface {
	model.PoliceStation | model.Port
}

// ReferenceRepository defines data access for a named lookup table
type ReferenceRepository[T ReferenceEntry] interface {
	Create(ctx context.Context, entry *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	List(ctx context.Context) ([]T, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, entry *T) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// StationRepository and PortRepository are the two lookup tables
type (
	StationRepository = ReferenceRepository[model.PoliceStation]
	PortRepository    = ReferenceRepository[model.Port]
)

type referenceRepository[T ReferenceEntry] struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) StationRepository {
	return &referenceRepository[model.PoliceStation]{db: db}
}

func NewPortRepository(db *gorm.DB) PortRepository {
	return &referenceRepository[model.Port]{db: db}
}

func (r *referenceRepository[T]) Create(ctx context.Context, entry *T) error {
	return translate(GetDB(ctx, r.db).Create(entry).Error)
}

func (r *referenceRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entry T
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *referenceRepository[T]) FindByName(ctx context.Context, name string) (*T, error) {
	var entry T
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *referenceRepository[T]) List(ctx context.Context) ([]T, error) {
	entries := make([]T, 0)
	if err := GetDB(ctx, r.db).Order("name asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *referenceRepository[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(new(T)).Count(&total).Error
	return total, err
}

func (r *referenceRepository[T]) Update(ctx context.Context, entry *T) error {
	return translate(GetDB(ctx, r.db).Save(entry).Error)
}

func (r *referenceRepository[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
