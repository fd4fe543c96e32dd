package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Expense struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TripID   uuid.UUID `gorm:"type:uuid;not null;index" json:"trip_id"`
	Trip     Trip      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Category string    `gorm:"size:50;not null" json:"category"` // 'transport', 'lodging', 'food', 'activity', 'other'
	Note     string    `gorm:"type:text" json:"note"`
	SpentAt  time.Time `gorm:"not null" json:"spent_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}
