package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
)

type TripRepository interface {
	Create(ctx context.Context, trip *entity.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	FindByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]entity.Trip, int64, error)
	FindPublic(ctx context.Context, offset, limit int) ([]entity.Trip, int64, error)
	Update(ctx context.Context, trip *entity.Trip) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOrCreateDestination(ctx context.Context, dest *entity.Destination) error
	AddViews(ctx context.Context, id uuid.UUID, delta int64) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	var trip entity.Trip
	err := r.db.WithContext(ctx).
		Preload("Destination").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Preload("User.Profile").
		First(&trip, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]entity.Trip, int64, error) {
	var trips []entity.Trip
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Trip{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Destination").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) FindPublic(ctx context.Context, offset, limit int) ([]entity.Trip, int64, error) {
	var trips []entity.Trip
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Trip{}).
		Where("visibility = ?", entity.TripVisibilityPublic)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Destination").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Preload("User.Profile").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *entity.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

func (r *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Trip{}, "id = ?", id).Error
}

// FindOrCreateDestination reuses an existing destination row when the same
// place name and country have been recorded before.
func (r *tripRepository) FindOrCreateDestination(ctx context.Context, dest *entity.Destination) error {
	dest.CountryCode = strings.ToUpper(dest.CountryCode)
	return r.db.WithContext(ctx).
		Where("name = ? AND country_code = ?", dest.Name, dest.CountryCode).
		FirstOrCreate(dest).Error
}

func (r *tripRepository) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).Model(&entity.Trip{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + ?", delta)).Error
}
