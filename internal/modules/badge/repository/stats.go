package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"kelana.id/travelapp/internal/entity"
)

// TripBudget is one completed trip's estimated budget next to what was
// actually spent on it. The under-budget derivation happens in the service.
type TripBudget struct {
	EstimatedBudget float64
	TotalSpent      float64
}

// StatsRepository is the read-only side of badge evaluation. Every method
// is scoped to one user and independent of the others, so callers may issue
// them concurrently.
type StatsRepository interface {
	CountCompletedTrips(ctx context.Context, userID uuid.UUID) (int64, error)
	CountPublicTrips(ctx context.Context, userID uuid.UUID) (int64, error)
	CountDistinctCountries(ctx context.Context, userID uuid.UUID) (int64, error)
	CountJournalEntries(ctx context.Context, userID uuid.UUID) (int64, error)
	CountPhotos(ctx context.Context, userID uuid.UUID) (int64, error)
	CountPhotoLikesReceived(ctx context.Context, userID uuid.UUID) (int64, error)
	CountPhotoCommentsReceived(ctx context.Context, userID uuid.UUID) (int64, error)
	CompletedTripBudgets(ctx context.Context, userID uuid.UUID) ([]TripBudget, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountCompletedTrips(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Trip{}).
		Where("user_id = ? AND status = ?", userID, entity.TripStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CountPublicTrips(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Trip{}).
		Where("user_id = ? AND visibility = ?", userID, entity.TripVisibilityPublic).
		Count(&count).Error
	return count, err
}

// Trips without a resolvable destination are excluded, never counted as a
// null country.
func (r *statsRepository) CountDistinctCountries(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Trip{}).
		Joins("JOIN destinations ON destinations.id = trips.destination_id").
		Where("trips.user_id = ? AND trips.status = ?", userID, entity.TripStatusCompleted).
		Distinct("destinations.country_code").
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CountJournalEntries(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.JournalEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CountPhotos(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Photo{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CountPhotoLikesReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PhotoLike{}).
		Joins("JOIN photos ON photos.id = photo_likes.photo_id").
		Where("photos.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CountPhotoCommentsReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PhotoComment{}).
		Joins("JOIN photos ON photos.id = photo_comments.photo_id").
		Where("photos.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CompletedTripBudgets(ctx context.Context, userID uuid.UUID) ([]TripBudget, error) {
	var budgets []TripBudget
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.estimated_budget, COALESCE(SUM(e.amount), 0) AS total_spent
		FROM trips t
		LEFT JOIN expenses e ON e.trip_id = t.id AND e.deleted_at IS NULL
		WHERE t.user_id = ?
		  AND t.status = ?
		  AND t.estimated_budget > 0
		  AND t.deleted_at IS NULL
		GROUP BY t.id, t.estimated_budget
	`, userID, entity.TripStatusCompleted).Scan(&budgets).Error
	return budgets, err
}
