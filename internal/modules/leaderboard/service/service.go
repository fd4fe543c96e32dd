package service

import (
	"context"

	"github.com/google/uuid"

	"kelana.id/travelapp/internal/modules/leaderboard/dto"
	"kelana.id/travelapp/internal/modules/leaderboard/repository"
)

const defaultLeaderboardSize = 25

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	GetUserRank(ctx context.Context, userID uuid.UUID) (int64, error)
}

type leaderboardService struct {
	repo repository.LeaderboardRepository
}

func NewLeaderboardService(repo repository.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = defaultLeaderboardSize
	}

	users, badgeCounts, err := s.repo.TopUsers(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entry := dto.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.ID,
			Username:    user.Username,
			AvatarURL:   user.AvatarURL,
			TotalPoints: user.TotalPoints,
			BadgeCount:  badgeCounts[user.ID],
		}
		if user.Profile != nil {
			entry.DisplayName = user.Profile.DisplayName
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *leaderboardService) GetUserRank(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.UserRank(ctx, userID)
}
