package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TripStatusDraft     = "draft"
	TripStatusOngoing   = "ongoing"
	TripStatusCompleted = "completed"

	TripVisibilityPrivate = "private"
	TripVisibilityPublic  = "public"
)

type Trip struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Visibility  string     `gorm:"size:20;not null;default:'private';index" json:"visibility"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	// EstimatedBudget is in the user's currency; zero means no budget set.
	EstimatedBudget float64        `gorm:"not null;default:0" json:"estimated_budget"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	Views           int            `gorm:"not null;default:0" json:"views"`
	DestinationID   *uint          `json:"destination_id,omitempty"`
	Destination     *Destination   `gorm:"constraint:OnDelete:SET NULL" json:"destination,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Expenses []Expense      `gorm:"constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	Entries  []JournalEntry `gorm:"constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

func (t *Trip) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

// Destination is a resolvable place a trip points at. CountryCode is the
// ISO 3166-1 alpha-2 code used by the distinct-country badge statistic.
type Destination struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	CountryCode string    `gorm:"size:2;not null;index" json:"country_code"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
