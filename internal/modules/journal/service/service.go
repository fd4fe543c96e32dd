package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	badgeService "kelana.id/travelapp/internal/modules/badge/service"
	"kelana.id/travelapp/internal/modules/journal/dto"
	"kelana.id/travelapp/internal/modules/journal/repository"
	notifService "kelana.id/travelapp/internal/modules/notification/service"
	tripRepo "kelana.id/travelapp/internal/modules/trip/repository"
	"kelana.id/travelapp/pkg/apperror"
	commonDto "kelana.id/travelapp/pkg/dto"
	"kelana.id/travelapp/pkg/storage"
)

// orphanPhotoMaxAge is how long an uploaded photo may stay unattached
// before the cleanup job removes it.
const orphanPhotoMaxAge = 12 * time.Hour

type JournalService interface {
	CreateEntry(ctx context.Context, userID uuid.UUID, input dto.CreateEntryRequest) (*entity.JournalEntry, error)
	GetTripEntries(ctx context.Context, tripID uuid.UUID, requesterID uuid.UUID) ([]entity.JournalEntry, error)
	UpdateEntry(ctx context.Context, entryID uuid.UUID, userID uuid.UUID, input dto.UpdateEntryRequest) (*entity.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID uuid.UUID, userID uuid.UUID) error

	UploadPhoto(ctx context.Context, userID uuid.UUID, file *commonDto.UploadFile, caption string) (*entity.Photo, error)
	ToggleLike(ctx context.Context, photoID uint, userID uuid.UUID) (*dto.LikeResponse, error)
	AddComment(ctx context.Context, photoID uint, userID uuid.UUID, body string) (*entity.PhotoComment, error)
	GetComments(ctx context.Context, photoID uint, offset, limit int) ([]entity.PhotoComment, int64, error)
	DeleteComment(ctx context.Context, commentID uint, userID uuid.UUID) error

	CleanupOrphanPhotos(ctx context.Context) error
	StartOrphanCleanupWorker(ctx context.Context)
}

type journalService struct {
	repo          repository.JournalRepository
	trips         tripRepo.TripRepository
	imageStorage  storage.ImageStorage
	notifications notifService.NotificationService
	badges        badgeService.BadgeService
}

func NewJournalService(
	repo repository.JournalRepository,
	trips tripRepo.TripRepository,
	imageStorage storage.ImageStorage,
	notifications notifService.NotificationService,
	badges badgeService.BadgeService,
) JournalService {
	return &journalService{
		repo:          repo,
		trips:         trips,
		imageStorage:  imageStorage,
		notifications: notifications,
		badges:        badges,
	}
}

func (s *journalService) CreateEntry(ctx context.Context, userID uuid.UUID, input dto.CreateEntryRequest) (*entity.JournalEntry, error) {
	tripID, err := uuid.Parse(input.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip id: %w", apperror.ErrBadRequest)
	}

	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("you can only write entries on your own trips: %w", apperror.ErrForbidden)
	}

	entryDate := time.Now()
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}

	entry := &entity.JournalEntry{
		TripID:    tripID,
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		EntryDate: entryDate,
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.repo.AttachPhotos(ctx, entry.ID, userID, input.PhotoIDs); err != nil {
		log.Printf("failed to attach photos to entry %s: %v", entry.ID, err)
	}

	// Entry and photo counts feed the storytelling badges.
	s.badges.EvaluateAsync(userID)

	return s.repo.FindEntryByID(ctx, entry.ID)
}

func (s *journalService) GetTripEntries(ctx context.Context, tripID uuid.UUID, requesterID uuid.UUID) ([]entity.JournalEntry, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if trip.Visibility != entity.TripVisibilityPublic && trip.UserID != requesterID {
		return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
	}
	return s.repo.FindEntriesByTrip(ctx, tripID)
}

func (s *journalService) UpdateEntry(ctx context.Context, entryID uuid.UUID, userID uuid.UUID, input dto.UpdateEntryRequest) (*entity.JournalEntry, error) {
	entry, err := s.ownedEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entry.Title = *input.Title
	}
	if input.Content != nil {
		entry.Content = *input.Content
	}
	if input.EntryDate != nil {
		entry.EntryDate = *input.EntryDate
	}

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if input.PhotoIDs != nil {
		if err := s.repo.DetachPhotos(ctx, entry.ID); err != nil {
			return nil, err
		}
		if err := s.repo.AttachPhotos(ctx, entry.ID, userID, input.PhotoIDs); err != nil {
			return nil, err
		}
	}

	return s.repo.FindEntryByID(ctx, entry.ID)
}

func (s *journalService) DeleteEntry(ctx context.Context, entryID uuid.UUID, userID uuid.UUID) error {
	entry, err := s.ownedEntry(ctx, entryID, userID)
	if err != nil {
		return err
	}
	// Photos go back to the orphan pool; the cleanup job removes them
	// if they are never reattached.
	if err := s.repo.DetachPhotos(ctx, entry.ID); err != nil {
		return err
	}
	return s.repo.DeleteEntry(ctx, entry.ID)
}

func (s *journalService) UploadPhoto(ctx context.Context, userID uuid.UUID, file *commonDto.UploadFile, caption string) (*entity.Photo, error) {
	if file == nil || file.Reader == nil {
		return nil, fmt.Errorf("photo file is required: %w", apperror.ErrBadRequest)
	}
	if s.imageStorage == nil {
		return nil, fmt.Errorf("image storage is not configured: %w", apperror.ErrInternal)
	}

	url, err := s.imageStorage.UploadImage(ctx, file.Reader, "journal", file.FileName)
	if err != nil {
		return nil, err
	}

	photo := &entity.Photo{
		UserID:  userID,
		FileURL: url,
		Caption: caption,
	}
	if err := s.repo.CreatePhoto(ctx, photo); err != nil {
		return nil, err
	}

	s.badges.EvaluateAsync(userID)

	return photo, nil
}

func (s *journalService) ToggleLike(ctx context.Context, photoID uint, userID uuid.UUID) (*dto.LikeResponse, error) {
	photo, err := s.repo.FindPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("photo not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	liked, err := s.repo.ToggleLike(ctx, photoID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountLikes(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if liked && photo.UserID != userID {
		s.notifyPhotoOwner(ctx, photo, userID, entity.NotificationPhotoLike, "Someone liked your photo")
		// Likes received feed the social badges of the photo owner.
		s.badges.EvaluateAsync(photo.UserID)
	}

	return &dto.LikeResponse{PhotoID: photoID, Liked: liked, LikeCount: count}, nil
}

func (s *journalService) AddComment(ctx context.Context, photoID uint, userID uuid.UUID, body string) (*entity.PhotoComment, error) {
	photo, err := s.repo.FindPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("photo not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	comment := &entity.PhotoComment{
		PhotoID: photoID,
		UserID:  userID,
		Body:    body,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if photo.UserID != userID {
		s.notifyPhotoOwner(ctx, photo, userID, entity.NotificationPhotoComment, "Someone commented on your photo")
		s.badges.EvaluateAsync(photo.UserID)
	}

	return comment, nil
}

func (s *journalService) GetComments(ctx context.Context, photoID uint, offset, limit int) ([]entity.PhotoComment, int64, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.repo.FindComments(ctx, photoID, offset, limit)
}

func (s *journalService) DeleteComment(ctx context.Context, commentID uint, userID uuid.UUID) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if comment.UserID != userID {
		// The photo owner can also moderate comments on their photo.
		photo, err := s.repo.FindPhotoByID(ctx, comment.PhotoID)
		if err != nil || photo.UserID != userID {
			return fmt.Errorf("you can only delete your own comments: %w", apperror.ErrForbidden)
		}
	}

	return s.repo.DeleteComment(ctx, commentID)
}

// CleanupOrphanPhotos removes uploads that were never attached to an entry,
// both the storage object and the row.
func (s *journalService) CleanupOrphanPhotos(ctx context.Context) error {
	orphans, err := s.repo.FindOrphanPhotos(ctx, time.Now().Add(-orphanPhotoMaxAge))
	if err != nil {
		return err
	}

	for _, photo := range orphans {
		if s.imageStorage != nil {
			if err := s.imageStorage.DeleteImage(ctx, photo.FileURL); err != nil {
				log.Printf("failed to delete orphan photo %d from storage: %v", photo.ID, err)
				continue
			}
		}
		if err := s.repo.DeletePhoto(ctx, photo.ID); err != nil {
			log.Printf("failed to delete orphan photo row %d: %v", photo.ID, err)
		}
	}

	if len(orphans) > 0 {
		log.Printf("cleaned up %d orphan photos", len(orphans))
	}
	return nil
}

func (s *journalService) StartOrphanCleanupWorker(ctx context.Context) {
	ticker := time.NewTicker(orphanPhotoMaxAge)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.CleanupOrphanPhotos(ctx); err != nil {
				log.Printf("orphan photo cleanup failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *journalService) ownedEntry(ctx context.Context, entryID uuid.UUID, userID uuid.UUID) (*entity.JournalEntry, error) {
	entry, err := s.repo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entry not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("you can only modify your own entries: %w", apperror.ErrForbidden)
	}
	return entry, nil
}

func (s *journalService) notifyPhotoOwner(ctx context.Context, photo *entity.Photo, actorID uuid.UUID, notifType, message string) {
	notification := &entity.Notification{
		UserID:     photo.UserID,
		ActorID:    &actorID,
		EntityID:   fmt.Sprintf("%d", photo.ID),
		EntityType: "photo",
		Type:       notifType,
		Message:    message,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create %s notification: %v", notifType, err)
	}
}
