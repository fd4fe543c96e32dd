package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelana.id/travelapp/internal/entity"
	badgeRepo "kelana.id/travelapp/internal/modules/badge/repository"
)

type fakeBadgeRepo struct {
	badgeRepo.BadgeRepository

	active     []entity.Badge
	earnedIDs  []uint
	awardErrs  map[string]error
	lostRaces  map[string]bool
	awarded    []string
	listActErr error
}

func (f *fakeBadgeRepo) ListActive(ctx context.Context) ([]entity.Badge, error) {
	if f.listActErr != nil {
		return nil, f.listActErr
	}
	return f.active, nil
}

func (f *fakeBadgeRepo) EarnedBadgeIDs(ctx context.Context, userID uuid.UUID) ([]uint, error) {
	return f.earnedIDs, nil
}

func (f *fakeBadgeRepo) Award(ctx context.Context, userID uuid.UUID, badge *entity.Badge) (bool, error) {
	if err := f.awardErrs[badge.Code]; err != nil {
		return false, err
	}
	if f.lostRaces[badge.Code] {
		return false, nil
	}
	f.awarded = append(f.awarded, badge.Code)
	return true, nil
}

type fakeStatsRepo struct {
	completedTrips int64
	publicTrips    int64
	countries      int64
	entries        int64
	photos         int64
	likes          int64
	comments       int64
	budgets        []badgeRepo.TripBudget

	completedErr error
}

func (f *fakeStatsRepo) CountCompletedTrips(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.completedTrips, f.completedErr
}
func (f *fakeStatsRepo) CountPublicTrips(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.publicTrips, nil
}
func (f *fakeStatsRepo) CountDistinctCountries(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.countries, nil
}
func (f *fakeStatsRepo) CountJournalEntries(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.entries, nil
}
func (f *fakeStatsRepo) CountPhotos(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.photos, nil
}
func (f *fakeStatsRepo) CountPhotoLikesReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.likes, nil
}
func (f *fakeStatsRepo) CountPhotoCommentsReceived(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.comments, nil
}
func (f *fakeStatsRepo) CompletedTripBudgets(ctx context.Context, userID uuid.UUID) ([]badgeRepo.TripBudget, error) {
	return f.budgets, nil
}

type fakeNotifier struct {
	created []entity.Notification
}

func (f *fakeNotifier) CreateNotification(ctx context.Context, n *entity.Notification) error {
	f.created = append(f.created, *n)
	return nil
}
func (f *fakeNotifier) GetNotifications(userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return nil, nil
}
func (f *fakeNotifier) MarkAsRead(id uuid.UUID) error             { return nil }
func (f *fakeNotifier) MarkAllAsRead(userID uuid.UUID) error      { return nil }
func (f *fakeNotifier) UnreadCount(userID uuid.UUID) (int64, error) { return 0, nil }

func catalogBadge(id uint, code string, points int) entity.Badge {
	return entity.Badge{ID: id, Code: code, Name: code, Points: points, IsActive: true}
}

func TestEvaluateAwardsQualifiedBadges(t *testing.T) {
	repo := &fakeBadgeRepo{
		active: []entity.Badge{
			catalogBadge(1, BadgeFirstTrip, 10),
			catalogBadge(2, BadgeGlobetrotter, 25),
			catalogBadge(3, BadgeShutterbug, 45),
		},
	}
	stats := &fakeStatsRepo{completedTrips: 5}
	notifier := &fakeNotifier{}
	svc := NewBadgeService(repo, stats, nil, notifier)

	err := svc.Evaluate(context.Background(), uuid.New())
	require.NoError(t, err)

	// 5 completed trips qualifies both trip badges but not the photo one.
	assert.ElementsMatch(t, []string{BadgeFirstTrip, BadgeGlobetrotter}, repo.awarded)
	assert.Len(t, notifier.created, 2)
	for _, n := range notifier.created {
		assert.Equal(t, entity.NotificationBadgeEarned, n.Type)
		assert.Equal(t, "badge", n.EntityType)
	}
}

func TestEvaluateSkipsAlreadyEarnedBadges(t *testing.T) {
	repo := &fakeBadgeRepo{
		active: []entity.Badge{
			catalogBadge(1, BadgeFirstTrip, 10),
			catalogBadge(2, BadgeGlobetrotter, 25),
		},
		earnedIDs: []uint{1, 2},
	}
	notifier := &fakeNotifier{}
	svc := NewBadgeService(repo, &fakeStatsRepo{completedTrips: 20}, nil, notifier)

	err := svc.Evaluate(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Empty(t, repo.awarded, "earned badges are never re-awarded")
	assert.Empty(t, notifier.created)
}

func TestEvaluateLostRaceProducesNoNotification(t *testing.T) {
	repo := &fakeBadgeRepo{
		active:    []entity.Badge{catalogBadge(1, BadgeFirstTrip, 10)},
		lostRaces: map[string]bool{BadgeFirstTrip: true},
	}
	notifier := &fakeNotifier{}
	svc := NewBadgeService(repo, &fakeStatsRepo{completedTrips: 1}, nil, notifier)

	err := svc.Evaluate(context.Background(), uuid.New())
	require.NoError(t, err)

	// A concurrent pass inserted the row first; this pass is a no-op.
	assert.Empty(t, notifier.created)
}

func TestEvaluateAbortsWhenStatsAggregationFails(t *testing.T) {
	repo := &fakeBadgeRepo{
		active: []entity.Badge{catalogBadge(1, BadgeFirstTrip, 10)},
	}
	stats := &fakeStatsRepo{completedErr: errors.New("connection reset")}
	svc := NewBadgeService(repo, stats, nil, &fakeNotifier{})

	err := svc.Evaluate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Empty(t, repo.awarded, "no badge may be awarded on partial stats")
}

func TestEvaluateIsolatesPredicateFailures(t *testing.T) {
	badBadge := catalogBadge(2, BadgeGlobetrotter, 25)
	badBadge.Criteria = entity.Criteria{"completedTrips": "not-a-number"}

	repo := &fakeBadgeRepo{
		active: []entity.Badge{
			catalogBadge(1, BadgeFirstTrip, 10),
			badBadge,
			catalogBadge(3, BadgeFirstStory, 10),
		},
	}
	stats := &fakeStatsRepo{completedTrips: 5, entries: 1}
	svc := NewBadgeService(repo, stats, nil, &fakeNotifier{})

	err := svc.Evaluate(context.Background(), uuid.New())
	require.NoError(t, err)

	// The malformed badge fails alone; the other two still land.
	assert.ElementsMatch(t, []string{BadgeFirstTrip, BadgeFirstStory}, repo.awarded)
}

func TestEvaluateSkipsUnregisteredCatalogRows(t *testing.T) {
	repo := &fakeBadgeRepo{
		active: []entity.Badge{
			catalogBadge(1, "SEASONAL_2026", 99),
			catalogBadge(2, BadgeFirstTrip, 10),
		},
	}
	svc := NewBadgeService(repo, &fakeStatsRepo{completedTrips: 1}, nil, &fakeNotifier{})

	err := svc.Evaluate(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, []string{BadgeFirstTrip}, repo.awarded)
}

func TestEvaluateContinuesPastAwardFailure(t *testing.T) {
	repo := &fakeBadgeRepo{
		active: []entity.Badge{
			catalogBadge(1, BadgeFirstTrip, 10),
			catalogBadge(2, BadgeGlobetrotter, 25),
		},
		awardErrs: map[string]error{BadgeFirstTrip: errors.New("deadlock detected")},
	}
	svc := NewBadgeService(repo, &fakeStatsRepo{completedTrips: 5}, nil, &fakeNotifier{})

	err := svc.Evaluate(context.Background(), uuid.New())
	require.Error(t, err, "the failure is still reported")
	assert.Equal(t, []string{BadgeGlobetrotter}, repo.awarded, "the other award still commits")
}

func TestDeriveBudgetStats(t *testing.T) {
	under, saved := deriveBudgetStats([]badgeRepo.TripBudget{
		{EstimatedBudget: 1000, TotalSpent: 800},
		{EstimatedBudget: 500, TotalSpent: 600},
	})
	assert.Equal(t, int64(1), under, "the over-budget trip does not count")
	assert.Equal(t, 200.0, saved, "overspend never subtracts from savings")

	under, saved = deriveBudgetStats(nil)
	assert.Equal(t, int64(0), under)
	assert.Equal(t, 0.0, saved)

	// Spending exactly the budget counts as under budget with zero saved.
	under, saved = deriveBudgetStats([]badgeRepo.TripBudget{{EstimatedBudget: 300, TotalSpent: 300}})
	assert.Equal(t, int64(1), under)
	assert.Equal(t, 0.0, saved)
}

func TestAggregateStatsAssemblesSnapshot(t *testing.T) {
	stats := &fakeStatsRepo{
		completedTrips: 4,
		publicTrips:    2,
		countries:      3,
		entries:        7,
		photos:         12,
		likes:          30,
		comments:       5,
		budgets: []badgeRepo.TripBudget{
			{EstimatedBudget: 1000, TotalSpent: 900},
		},
	}
	svc := &badgeService{statsRepo: stats}

	snapshot, err := svc.aggregateStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, int64(4), snapshot.CompletedTrips)
	assert.Equal(t, int64(2), snapshot.PublicTrips)
	assert.Equal(t, int64(3), snapshot.DistinctCountries)
	assert.Equal(t, int64(7), snapshot.JournalEntries)
	assert.Equal(t, int64(12), snapshot.Photos)
	assert.Equal(t, int64(30), snapshot.PhotoLikes)
	assert.Equal(t, int64(5), snapshot.PhotoComments)
	assert.Equal(t, int64(1), snapshot.UnderBudgetTrips)
	assert.Equal(t, 100.0, snapshot.TotalSaved)
}
