package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	badgeService "kelana.id/travelapp/internal/modules/badge/service"
	searchService "kelana.id/travelapp/internal/modules/search/service"
	"kelana.id/travelapp/internal/modules/trip/dto"
	"kelana.id/travelapp/pkg/apperror"
)

type fakeTripRepo struct {
	trips map[uuid.UUID]*entity.Trip
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[uuid.UUID]*entity.Trip)}
}

func (f *fakeTripRepo) Create(ctx context.Context, trip *entity.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *trip
	return &copied, nil
}

func (f *fakeTripRepo) FindByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]entity.Trip, int64, error) {
	var out []entity.Trip
	for _, trip := range f.trips {
		if trip.UserID == userID && (status == "" || trip.Status == status) {
			out = append(out, *trip)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTripRepo) FindPublic(ctx context.Context, offset, limit int) ([]entity.Trip, int64, error) {
	var out []entity.Trip
	for _, trip := range f.trips {
		if trip.Visibility == entity.TripVisibilityPublic {
			out = append(out, *trip)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTripRepo) Update(ctx context.Context, trip *entity.Trip) error {
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.trips, id)
	return nil
}

func (f *fakeTripRepo) FindOrCreateDestination(ctx context.Context, dest *entity.Destination) error {
	dest.ID = 1
	return nil
}

func (f *fakeTripRepo) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	if trip, ok := f.trips[id]; ok {
		trip.Views += int(delta)
	}
	return nil
}

type fakeBadges struct {
	badgeService.BadgeService
	evaluations []uuid.UUID
}

func (f *fakeBadges) EvaluateAsync(userID uuid.UUID) {
	f.evaluations = append(f.evaluations, userID)
}

type fakeSearch struct {
	indexed []string
	deleted []string
}

func (f *fakeSearch) IndexTrip(trip *entity.Trip) error {
	f.indexed = append(f.indexed, trip.ID.String())
	return nil
}

func (f *fakeSearch) DeleteTrip(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearch) SearchTrips(query, countryCode string, limit int64) ([]searchService.TripDoc, error) {
	return nil, nil
}

func (f *fakeSearch) GenerateSearchToken() (string, error) { return "", nil }

type fakeViews struct {
	increments int
}

func (f *fakeViews) IncrementView(ctx context.Context, tripID uuid.UUID, viewerID uuid.UUID) error {
	f.increments++
	return nil
}

func (f *fakeViews) StartViewSyncWorker(ctx context.Context) {}

func newTestTripService() (TripService, *fakeTripRepo, *fakeBadges, *fakeSearch, *fakeViews) {
	repo := newFakeTripRepo()
	badges := &fakeBadges{}
	search := &fakeSearch{}
	views := &fakeViews{}
	return NewTripService(repo, badges, search, views), repo, badges, search, views
}

func TestCreateTripStartsAsPrivateDraft(t *testing.T) {
	svc, _, _, _, _ := newTestTripService()
	userID := uuid.New()

	trip, err := svc.CreateTrip(context.Background(), userID, dto.CreateTripRequest{
		Title:           "Sumatra loop",
		EstimatedBudget: 1500,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TripStatusDraft, trip.Status)
	assert.Equal(t, entity.TripVisibilityPrivate, trip.Visibility)
	assert.Nil(t, trip.CompletedAt)
}

func TestCreateTripRejectsInvertedDates(t *testing.T) {
	svc, _, _, _, _ := newTestTripService()

	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -3)

	_, err := svc.CreateTrip(context.Background(), uuid.New(), dto.CreateTripRequest{
		Title:     "Backwards",
		StartDate: &start,
		EndDate:   &end,
	})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestCompleteTripSetsTimestampAndTriggersEvaluation(t *testing.T) {
	svc, repo, badges, _, _ := newTestTripService()
	userID := uuid.New()

	trip := &entity.Trip{UserID: userID, Title: "Java traverse", Status: entity.TripStatusOngoing, Visibility: entity.TripVisibilityPrivate}
	require.NoError(t, repo.Create(context.Background(), trip))

	completed, err := svc.CompleteTrip(context.Background(), trip.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, entity.TripStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, []uuid.UUID{userID}, badges.evaluations)

	// Completing twice is rejected.
	_, err = svc.CompleteTrip(context.Background(), trip.ID, userID)
	require.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Len(t, badges.evaluations, 1)
}

func TestCompleteTripOnlyByOwner(t *testing.T) {
	svc, repo, _, _, _ := newTestTripService()
	owner := uuid.New()

	trip := &entity.Trip{UserID: owner, Title: "Solo ride", Status: entity.TripStatusOngoing}
	require.NoError(t, repo.Create(context.Background(), trip))

	_, err := svc.CompleteTrip(context.Background(), trip.ID, uuid.New())
	require.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestGetTripHidesPrivateTripsFromOthers(t *testing.T) {
	svc, repo, _, _, views := newTestTripService()
	owner := uuid.New()

	trip := &entity.Trip{UserID: owner, Title: "Hidden gem", Status: entity.TripStatusDraft, Visibility: entity.TripVisibilityPrivate}
	require.NoError(t, repo.Create(context.Background(), trip))

	// Owner sees it.
	_, err := svc.GetTrip(context.Background(), trip.ID, owner)
	require.NoError(t, err)

	// Anyone else gets not found, not forbidden.
	_, err = svc.GetTrip(context.Background(), trip.ID, uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, views.increments)
}

func TestGetTripCountsViewsFromOtherUsersOnly(t *testing.T) {
	svc, repo, _, _, views := newTestTripService()
	owner := uuid.New()

	trip := &entity.Trip{UserID: owner, Title: "Open trip", Status: entity.TripStatusCompleted, Visibility: entity.TripVisibilityPublic}
	require.NoError(t, repo.Create(context.Background(), trip))

	_, err := svc.GetTrip(context.Background(), trip.ID, owner)
	require.NoError(t, err)
	assert.Zero(t, views.increments, "owner views never count")

	_, err = svc.GetTrip(context.Background(), trip.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, views.increments)
}

func TestUpdateVisibilitySyncsSearchIndex(t *testing.T) {
	svc, repo, badges, search, _ := newTestTripService()
	userID := uuid.New()

	trip := &entity.Trip{UserID: userID, Title: "Shareable", Status: entity.TripStatusCompleted, Visibility: entity.TripVisibilityPrivate}
	require.NoError(t, repo.Create(context.Background(), trip))

	updated, err := svc.UpdateVisibility(context.Background(), trip.ID, userID, entity.TripVisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, entity.TripVisibilityPublic, updated.Visibility)
	assert.Equal(t, []string{trip.ID.String()}, search.indexed)
	assert.Len(t, badges.evaluations, 1, "going public feeds the public trip badges")

	_, err = svc.UpdateVisibility(context.Background(), trip.ID, userID, entity.TripVisibilityPrivate)
	require.NoError(t, err)
	assert.Equal(t, []string{trip.ID.String()}, search.deleted)
}

func TestUpdateTripRefusesStatusChangeAfterCompletion(t *testing.T) {
	svc, repo, _, _, _ := newTestTripService()
	userID := uuid.New()

	now := time.Now()
	trip := &entity.Trip{UserID: userID, Title: "Done deal", Status: entity.TripStatusCompleted, CompletedAt: &now}
	require.NoError(t, repo.Create(context.Background(), trip))

	draft := entity.TripStatusDraft
	_, err := svc.UpdateTrip(context.Background(), trip.ID, userID, dto.UpdateTripRequest{Status: &draft})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}
