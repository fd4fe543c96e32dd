package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelana.id/travelapp/internal/entity"
)

type fakeLeaderboardRepo struct {
	users  []entity.User
	counts map[uuid.UUID]int64
}

func (f *fakeLeaderboardRepo) TopUsers(ctx context.Context, limit int) ([]entity.User, map[uuid.UUID]int64, error) {
	if limit > len(f.users) {
		limit = len(f.users)
	}
	return f.users[:limit], f.counts, nil
}

func (f *fakeLeaderboardRepo) UserRank(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 4, nil
}

func TestGetLeaderboardAssignsRanks(t *testing.T) {
	first := entity.User{ID: uuid.New(), Username: "wanderer", TotalPoints: 120, Profile: &entity.Profile{DisplayName: "The Wanderer"}}
	second := entity.User{ID: uuid.New(), Username: "drifter", TotalPoints: 45}

	repo := &fakeLeaderboardRepo{
		users: []entity.User{first, second},
		counts: map[uuid.UUID]int64{
			first.ID:  5,
			second.ID: 2,
		},
	}
	svc := NewLeaderboardService(repo)

	entries, err := svc.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "wanderer", entries[0].Username)
	assert.Equal(t, "The Wanderer", entries[0].DisplayName)
	assert.Equal(t, 120, entries[0].TotalPoints)
	assert.Equal(t, int64(5), entries[0].BadgeCount)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Empty(t, entries[1].DisplayName, "missing profile leaves the display name blank")
}

func TestGetLeaderboardClampsLimit(t *testing.T) {
	repo := &fakeLeaderboardRepo{counts: map[uuid.UUID]int64{}}
	svc := NewLeaderboardService(repo)

	_, err := svc.GetLeaderboard(context.Background(), -5)
	require.NoError(t, err)

	_, err = svc.GetLeaderboard(context.Background(), 5000)
	require.NoError(t, err)
}
