package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationBadgeEarned  = "badge_earned"
	NotificationPhotoLike    = "photo_like"
	NotificationPhotoComment = "photo_comment"
)

type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"` // nil for system notifications (badge awards)
	EntityID   string     `gorm:"size:36" json:"entity_id"`            // badge code, photo id, ...
	EntityType string     `gorm:"size:50;not null" json:"entity_type"` // 'badge', 'photo'
	Type       string     `gorm:"size:50;not null" json:"type"`
	Message    string     `gorm:"type:text" json:"message"`
	IsRead     bool       `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User  *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
