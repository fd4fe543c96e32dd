package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	BadgeCategoryTravelMilestone   = "travel_milestone"
	BadgeCategorySocialEngagement  = "social_engagement"
	BadgeCategoryFinancialPlanning = "financial_planning"
	BadgeCategoryContentCreation   = "content_creation"

	BadgeRarityCommon    = "common"
	BadgeRarityRare      = "rare"
	BadgeRarityEpic      = "epic"
	BadgeRarityLegendary = "legendary"
)

// Criteria is the open parameter bag attached to a badge, stored as jsonb
// and interpreted only by the matching rule-table predicate.
type Criteria map[string]interface{}

func (c Criteria) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	return string(b), err
}

func (c *Criteria) Scan(value interface{}) error {
	if value == nil {
		*c = Criteria{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported criteria column type")
	}
	return json.Unmarshal(raw, c)
}

// Badge is an admin-curated achievement. The evaluation engine treats it as
// immutable except for IsActive, which gates whether it is ever evaluated.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:30;not null;index" json:"category"`
	Rarity      string    `gorm:"size:20;not null;default:'common'" json:"rarity"`
	Points      int       `gorm:"not null" json:"points"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	Criteria    Criteria  `gorm:"type:jsonb;not null;default:'{}'" json:"criteria"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserBadge is append-only. The unique index on (user_id, badge_id) is what
// the award transaction's insert-if-absent leans on.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_unique,priority:1" json:"user_id"`
	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badges_unique,priority:2" json:"badge_id"`
	Badge    Badge     `gorm:"constraint:OnDelete:CASCADE" json:"badge"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}
