package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TripID    uuid.UUID `gorm:"type:uuid;not null;index" json:"trip_id"`
	Trip      Trip      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	EntryDate time.Time `gorm:"not null" json:"entry_date"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Photos []Photo `gorm:"constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID, err = uuid.NewV7()
	}
	return
}

// Photo rows are created at upload time with a nil EntryID and attached to
// an entry afterwards. Unattached rows past a cutoff are orphans and get
// cleaned up by the background job.
type Photo struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EntryID   *uuid.UUID    `gorm:"type:uuid;index" json:"entry_id,omitempty"`
	Entry     *JournalEntry `gorm:"foreignKey:EntryID" json:"-"`
	FileURL   string        `gorm:"type:text;not null" json:"file_url"`
	Caption   string        `gorm:"size:255" json:"caption"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

type PhotoLike struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	PhotoID uint      `gorm:"not null;uniqueIndex:idx_photo_likes_unique,priority:1" json:"photo_id"`
	Photo   Photo     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_photo_likes_unique,priority:2" json:"user_id"`
	User    User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PhotoComment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	PhotoID uint      `gorm:"not null;index" json:"photo_id"`
	Photo   Photo     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User    User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Body    string    `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
