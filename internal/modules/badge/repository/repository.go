package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"kelana.id/travelapp/internal/entity"
)

type BadgeRepository interface {
	ListActive(ctx context.Context) ([]entity.Badge, error)
	ListActiveByCategory(ctx context.Context, category string) ([]entity.Badge, error)
	FindByCode(ctx context.Context, code string) (*entity.Badge, error)
	EarnedBadgeIDs(ctx context.Context, userID uuid.UUID) ([]uint, error)
	ListEarned(ctx context.Context, userID uuid.UUID) ([]entity.UserBadge, error)
	CountEarned(ctx context.Context, userID uuid.UUID) (int64, error)
	CountEarnedByCategory(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
	Award(ctx context.Context, userID uuid.UUID, badge *entity.Badge) (bool, error)

	Create(ctx context.Context, badge *entity.Badge) error
	Update(ctx context.Context, badge *entity.Badge) error
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) ListActive(ctx context.Context) ([]entity.Badge, error) {
	var badges []entity.Badge
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category, points").
		Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) ListActiveByCategory(ctx context.Context, category string) ([]entity.Badge, error) {
	var badges []entity.Badge
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND category = ?", true, category).
		Order("points").
		Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) FindByCode(ctx context.Context, code string) (*entity.Badge, error) {
	var badge entity.Badge
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *badgeRepository) EarnedBadgeIDs(ctx context.Context, userID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entity.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	return ids, err
}

func (r *badgeRepository) ListEarned(ctx context.Context, userID uuid.UUID) ([]entity.UserBadge, error) {
	var earned []entity.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *badgeRepository) CountEarned(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *badgeRepository) CountEarnedByCategory(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	type row struct {
		Category string
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.UserBadge{}).
		Select("badges.category AS category, COUNT(*) AS total").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Group("badges.category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Total
	}
	return byCategory, nil
}

// Award grants the badge and bumps the user's point total as one atomic
// unit. The insert-if-absent on the (user_id, badge_id) unique index is the
// in-transaction re-check: a concurrent evaluation that already awarded the
// badge makes this a no-op success, and the counter is only incremented
// when a row was actually inserted. Returns whether a new award happened.
func (r *badgeRepository) Award(ctx context.Context, userID uuid.UUID, badge *entity.Badge) (bool, error) {
	awarded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entity.UserBadge{
			UserID:   userID,
			BadgeID:  badge.ID,
			EarnedAt: time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent evaluation, nothing to do
			return nil
		}

		awarded = true
		return tx.Model(&entity.User{}).
			Where("id = ?", userID).
			Update("total_points", gorm.Expr("total_points + ?", badge.Points)).Error
	})
	if err != nil {
		return false, err
	}
	return awarded, nil
}

func (r *badgeRepository) Create(ctx context.Context, badge *entity.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

func (r *badgeRepository) Update(ctx context.Context, badge *entity.Badge) error {
	return r.db.WithContext(ctx).Save(badge).Error
}
