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
	"kelana.id/travelapp/internal/modules/journal/dto"
)

type fakeJournalRepo struct {
	entries  map[uuid.UUID]*entity.JournalEntry
	photos   map[uint]*entity.Photo
	comments map[uint]*entity.PhotoComment
	likes    map[uint]map[uuid.UUID]bool

	nextPhotoID   uint
	nextCommentID uint
	deletedPhotos []uint
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{
		entries:  make(map[uuid.UUID]*entity.JournalEntry),
		photos:   make(map[uint]*entity.Photo),
		comments: make(map[uint]*entity.PhotoComment),
		likes:    make(map[uint]map[uuid.UUID]bool),
	}
}

func (f *fakeJournalRepo) CreateEntry(ctx context.Context, entry *entity.JournalEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeJournalRepo) FindEntryByID(ctx context.Context, id uuid.UUID) (*entity.JournalEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeJournalRepo) FindEntriesByTrip(ctx context.Context, tripID uuid.UUID) ([]entity.JournalEntry, error) {
	var out []entity.JournalEntry
	for _, e := range f.entries {
		if e.TripID == tripID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) UpdateEntry(ctx context.Context, entry *entity.JournalEntry) error {
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeJournalRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeJournalRepo) CreatePhoto(ctx context.Context, photo *entity.Photo) error {
	f.nextPhotoID++
	photo.ID = f.nextPhotoID
	photo.CreatedAt = time.Now()
	f.photos[photo.ID] = photo
	return nil
}

func (f *fakeJournalRepo) FindPhotoByID(ctx context.Context, id uint) (*entity.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *photo
	return &copied, nil
}

func (f *fakeJournalRepo) AttachPhotos(ctx context.Context, entryID uuid.UUID, ownerID uuid.UUID, photoIDs []uint) error {
	for _, id := range photoIDs {
		if photo, ok := f.photos[id]; ok && photo.UserID == ownerID {
			eid := entryID
			photo.EntryID = &eid
		}
	}
	return nil
}

func (f *fakeJournalRepo) DetachPhotos(ctx context.Context, entryID uuid.UUID) error {
	for _, photo := range f.photos {
		if photo.EntryID != nil && *photo.EntryID == entryID {
			photo.EntryID = nil
		}
	}
	return nil
}

func (f *fakeJournalRepo) FindOrphanPhotos(ctx context.Context, olderThan time.Time) ([]entity.Photo, error) {
	var out []entity.Photo
	for _, photo := range f.photos {
		if photo.EntryID == nil && photo.CreatedAt.Before(olderThan) {
			out = append(out, *photo)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) DeletePhoto(ctx context.Context, id uint) error {
	delete(f.photos, id)
	f.deletedPhotos = append(f.deletedPhotos, id)
	return nil
}

func (f *fakeJournalRepo) ToggleLike(ctx context.Context, photoID uint, userID uuid.UUID) (bool, error) {
	if f.likes[photoID] == nil {
		f.likes[photoID] = make(map[uuid.UUID]bool)
	}
	if f.likes[photoID][userID] {
		delete(f.likes[photoID], userID)
		return false, nil
	}
	f.likes[photoID][userID] = true
	return true, nil
}

func (f *fakeJournalRepo) CountLikes(ctx context.Context, photoID uint) (int64, error) {
	return int64(len(f.likes[photoID])), nil
}

func (f *fakeJournalRepo) CreateComment(ctx context.Context, comment *entity.PhotoComment) error {
	f.nextCommentID++
	comment.ID = f.nextCommentID
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeJournalRepo) FindComments(ctx context.Context, photoID uint, offset, limit int) ([]entity.PhotoComment, int64, error) {
	var out []entity.PhotoComment
	for _, c := range f.comments {
		if c.PhotoID == photoID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeJournalRepo) FindCommentByID(ctx context.Context, id uint) (*entity.PhotoComment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeJournalRepo) DeleteComment(ctx context.Context, id uint) error {
	delete(f.comments, id)
	return nil
}

type stubTrips struct {
	trips map[uuid.UUID]*entity.Trip
}

func (s *stubTrips) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	trip, ok := s.trips[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return trip, nil
}

func (s *stubTrips) Create(ctx context.Context, trip *entity.Trip) error { return nil }
func (s *stubTrips) FindByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]entity.Trip, int64, error) {
	return nil, 0, nil
}
func (s *stubTrips) FindPublic(ctx context.Context, offset, limit int) ([]entity.Trip, int64, error) {
	return nil, 0, nil
}
func (s *stubTrips) Update(ctx context.Context, trip *entity.Trip) error { return nil }
func (s *stubTrips) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (s *stubTrips) FindOrCreateDestination(ctx context.Context, dest *entity.Destination) error {
	return nil
}
func (s *stubTrips) AddViews(ctx context.Context, id uuid.UUID, delta int64) error { return nil }

type recordingNotifier struct {
	created []entity.Notification
}

func (r *recordingNotifier) CreateNotification(ctx context.Context, n *entity.Notification) error {
	r.created = append(r.created, *n)
	return nil
}
func (r *recordingNotifier) GetNotifications(userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return nil, nil
}
func (r *recordingNotifier) MarkAsRead(id uuid.UUID) error        { return nil }
func (r *recordingNotifier) MarkAllAsRead(userID uuid.UUID) error { return nil }
func (r *recordingNotifier) UnreadCount(userID uuid.UUID) (int64, error) {
	return 0, nil
}

type recordingBadges struct {
	badgeService.BadgeService
	evaluations []uuid.UUID
}

func (r *recordingBadges) EvaluateAsync(userID uuid.UUID) {
	r.evaluations = append(r.evaluations, userID)
}

func journalEntryInput(tripID uuid.UUID, photoIDs []uint) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		TripID:   tripID.String(),
		Title:    "Day one",
		Content:  "We made it to the trailhead.",
		PhotoIDs: photoIDs,
	}
}

func TestToggleLikeNotifiesOwnerOnce(t *testing.T) {
	repo := newFakeJournalRepo()
	owner := uuid.New()
	liker := uuid.New()

	photo := &entity.Photo{UserID: owner, FileURL: "https://cdn.example/p.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), photo))

	notifier := &recordingNotifier{}
	badges := &recordingBadges{}
	svc := NewJournalService(repo, &stubTrips{}, nil, notifier, badges)

	// Like: notification and badge evaluation for the photo owner.
	res, err := svc.ToggleLike(context.Background(), photo.ID, liker)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)
	require.Len(t, notifier.created, 1)
	assert.Equal(t, entity.NotificationPhotoLike, notifier.created[0].Type)
	assert.Equal(t, owner, notifier.created[0].UserID)
	assert.Equal(t, []uuid.UUID{owner}, badges.evaluations)

	// Unlike: silent.
	res, err = svc.ToggleLike(context.Background(), photo.ID, liker)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, int64(0), res.LikeCount)
	assert.Len(t, notifier.created, 1)
}

func TestLikingOwnPhotoIsSilent(t *testing.T) {
	repo := newFakeJournalRepo()
	owner := uuid.New()

	photo := &entity.Photo{UserID: owner, FileURL: "https://cdn.example/p.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), photo))

	notifier := &recordingNotifier{}
	badges := &recordingBadges{}
	svc := NewJournalService(repo, &stubTrips{}, nil, notifier, badges)

	res, err := svc.ToggleLike(context.Background(), photo.ID, owner)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Empty(t, notifier.created)
	assert.Empty(t, badges.evaluations)
}

func TestAddCommentNotifiesPhotoOwner(t *testing.T) {
	repo := newFakeJournalRepo()
	owner := uuid.New()
	commenter := uuid.New()

	photo := &entity.Photo{UserID: owner, FileURL: "https://cdn.example/p.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), photo))

	notifier := &recordingNotifier{}
	badges := &recordingBadges{}
	svc := NewJournalService(repo, &stubTrips{}, nil, notifier, badges)

	comment, err := svc.AddComment(context.Background(), photo.ID, commenter, "Amazing view!")
	require.NoError(t, err)
	assert.Equal(t, "Amazing view!", comment.Body)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, entity.NotificationPhotoComment, notifier.created[0].Type)
	assert.Equal(t, []uuid.UUID{owner}, badges.evaluations)
}

func TestCreateEntryAttachesPhotosAndTriggersEvaluation(t *testing.T) {
	repo := newFakeJournalRepo()
	userID := uuid.New()
	trip := &entity.Trip{ID: uuid.New(), UserID: userID}
	trips := &stubTrips{trips: map[uuid.UUID]*entity.Trip{trip.ID: trip}}

	photo := &entity.Photo{UserID: userID, FileURL: "https://cdn.example/p.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), photo))

	badges := &recordingBadges{}
	svc := NewJournalService(repo, trips, nil, &recordingNotifier{}, badges)

	entry, err := svc.CreateEntry(context.Background(), userID, journalEntryInput(trip.ID, []uint{photo.ID}))
	require.NoError(t, err)

	require.NotNil(t, repo.photos[photo.ID].EntryID)
	assert.Equal(t, entry.ID, *repo.photos[photo.ID].EntryID)
	assert.Equal(t, []uuid.UUID{userID}, badges.evaluations)
}

func TestCleanupOrphanPhotosSkipsAttachedAndRecentOnes(t *testing.T) {
	repo := newFakeJournalRepo()
	userID := uuid.New()

	old := &entity.Photo{UserID: userID, FileURL: "https://cdn.example/old.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), old))
	repo.photos[old.ID].CreatedAt = time.Now().Add(-24 * time.Hour)

	attached := &entity.Photo{UserID: userID, FileURL: "https://cdn.example/att.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), attached))
	repo.photos[attached.ID].CreatedAt = time.Now().Add(-24 * time.Hour)
	entryID := uuid.New()
	repo.photos[attached.ID].EntryID = &entryID

	fresh := &entity.Photo{UserID: userID, FileURL: "https://cdn.example/new.webp"}
	require.NoError(t, repo.CreatePhoto(context.Background(), fresh))

	svc := NewJournalService(repo, &stubTrips{}, nil, &recordingNotifier{}, &recordingBadges{})

	require.NoError(t, svc.CleanupOrphanPhotos(context.Background()))

	assert.Equal(t, []uint{old.ID}, repo.deletedPhotos)
	assert.Contains(t, repo.photos, attached.ID)
	assert.Contains(t, repo.photos, fresh.ID)
}
