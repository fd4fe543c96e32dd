package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
)

type JournalRepository interface {
	CreateEntry(ctx context.Context, entry *entity.JournalEntry) error
	FindEntryByID(ctx context.Context, id uuid.UUID) (*entity.JournalEntry, error)
	FindEntriesByTrip(ctx context.Context, tripID uuid.UUID) ([]entity.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry *entity.JournalEntry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	CreatePhoto(ctx context.Context, photo *entity.Photo) error
	FindPhotoByID(ctx context.Context, id uint) (*entity.Photo, error)
	AttachPhotos(ctx context.Context, entryID uuid.UUID, ownerID uuid.UUID, photoIDs []uint) error
	DetachPhotos(ctx context.Context, entryID uuid.UUID) error
	FindOrphanPhotos(ctx context.Context, olderThan time.Time) ([]entity.Photo, error)
	DeletePhoto(ctx context.Context, id uint) error

	ToggleLike(ctx context.Context, photoID uint, userID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, photoID uint) (int64, error)
	CreateComment(ctx context.Context, comment *entity.PhotoComment) error
	FindComments(ctx context.Context, photoID uint, offset, limit int) ([]entity.PhotoComment, int64, error)
	FindCommentByID(ctx context.Context, id uint) (*entity.PhotoComment, error)
	DeleteComment(ctx context.Context, id uint) error
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) CreateEntry(ctx context.Context, entry *entity.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journalRepository) FindEntryByID(ctx context.Context, id uuid.UUID) (*entity.JournalEntry, error) {
	var entry entity.JournalEntry
	err := r.db.WithContext(ctx).
		Preload("Photos").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) FindEntriesByTrip(ctx context.Context, tripID uuid.UUID) ([]entity.JournalEntry, error) {
	var entries []entity.JournalEntry
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("trip_id = ?", tripID).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *journalRepository) UpdateEntry(ctx context.Context, entry *entity.JournalEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *journalRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.JournalEntry{}, "id = ?", id).Error
}

func (r *journalRepository) CreatePhoto(ctx context.Context, photo *entity.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *journalRepository) FindPhotoByID(ctx context.Context, id uint) (*entity.Photo, error) {
	var photo entity.Photo
	if err := r.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// AttachPhotos binds uploaded photos to an entry. The owner filter keeps a
// user from attaching someone else's uploads.
func (r *journalRepository) AttachPhotos(ctx context.Context, entryID uuid.UUID, ownerID uuid.UUID, photoIDs []uint) error {
	if len(photoIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.Photo{}).
		Where("id IN ? AND user_id = ?", photoIDs, ownerID).
		Update("entry_id", entryID).Error
}

func (r *journalRepository) DetachPhotos(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Photo{}).
		Where("entry_id = ?", entryID).
		Update("entry_id", nil).Error
}

func (r *journalRepository) FindOrphanPhotos(ctx context.Context, olderThan time.Time) ([]entity.Photo, error) {
	var photos []entity.Photo
	err := r.db.WithContext(ctx).
		Where("entry_id IS NULL AND created_at < ?", olderThan).
		Find(&photos).Error
	return photos, err
}

func (r *journalRepository) DeletePhoto(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Photo{}, "id = ?", id).Error
}

// ToggleLike inserts or removes the like row and reports the resulting
// state: true when the photo is now liked by the user.
func (r *journalRepository) ToggleLike(ctx context.Context, photoID uint, userID uuid.UUID) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.PhotoLike
		err := tx.Where("photo_id = ? AND user_id = ?", photoID, userID).First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		liked = true
		return tx.Create(&entity.PhotoLike{PhotoID: photoID, UserID: userID}).Error
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *journalRepository) CountLikes(ctx context.Context, photoID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PhotoLike{}).
		Where("photo_id = ?", photoID).
		Count(&count).Error
	return count, err
}

func (r *journalRepository) CreateComment(ctx context.Context, comment *entity.PhotoComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *journalRepository) FindComments(ctx context.Context, photoID uint, offset, limit int) ([]entity.PhotoComment, int64, error) {
	var comments []entity.PhotoComment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PhotoComment{}).Where("photo_id = ?", photoID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *journalRepository) FindCommentByID(ctx context.Context, id uint) (*entity.PhotoComment, error) {
	var comment entity.PhotoComment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *journalRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.PhotoComment{}, "id = ?", id).Error
}
