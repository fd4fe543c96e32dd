package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
)

type LeaderboardRepository interface {
	TopUsers(ctx context.Context, limit int) ([]entity.User, map[uuid.UUID]int64, error)
	UserRank(ctx context.Context, userID uuid.UUID) (int64, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) TopUsers(ctx context.Context, limit int) ([]entity.User, map[uuid.UUID]int64, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("total_points > 0").
		Order("total_points DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, nil, err
	}

	badgeCounts := make(map[uuid.UUID]int64, len(users))
	if len(users) > 0 {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}

		type countRow struct {
			UserID uuid.UUID
			Count  int64
		}
		var rows []countRow
		err = r.db.WithContext(ctx).Model(&entity.UserBadge{}).
			Select("user_id, COUNT(*) AS count").
			Where("user_id IN ?", ids).
			Group("user_id").
			Scan(&rows).Error
		if err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			badgeCounts[row.UserID] = row.Count
		}
	}

	return users, badgeCounts, nil
}

// UserRank counts users strictly ahead of this one, so ties share a rank.
func (r *leaderboardRepository) UserRank(ctx context.Context, userID uuid.UUID) (int64, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Select("total_points").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}

	var ahead int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("total_points > ?", user.TotalPoints).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return ahead + 1, nil
}
