package dto

import (
	"time"

	"kelana.id/travelapp/internal/entity"
)

// UserStats is the snapshot of a user's lifetime activity the rule table
// evaluates against. It is computed fresh for every evaluation pass and
// never persisted.
type UserStats struct {
	CompletedTrips    int64   `json:"completed_trips"`
	DistinctCountries int64   `json:"distinct_countries"`
	PublicTrips       int64   `json:"public_trips"`
	PhotoLikes        int64   `json:"photo_likes"`
	PhotoComments     int64   `json:"photo_comments"`
	JournalEntries    int64   `json:"journal_entries"`
	Photos            int64   `json:"photos"`
	UnderBudgetTrips  int64   `json:"under_budget_trips"`
	TotalSaved        float64 `json:"total_saved"`
}

type EarnedBadgeResponse struct {
	Badge    entity.Badge `json:"badge"`
	EarnedAt time.Time    `json:"earned_at"`
}

type UserBadgeStats struct {
	TotalPoints int              `json:"total_points"`
	EarnedCount int64            `json:"earned_count"`
	ByCategory  map[string]int64 `json:"by_category"`
}

type CreateBadgeInput struct {
	Code        string          `json:"code" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required,oneof=travel_milestone social_engagement financial_planning content_creation"`
	Rarity      string          `json:"rarity" binding:"omitempty,oneof=common rare epic legendary"`
	Points      int             `json:"points" binding:"required,min=1"`
	IconURL     string          `json:"icon_url"`
	Criteria    entity.Criteria `json:"criteria"`
}

type UpdateBadgeInput struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Rarity      *string          `json:"rarity" binding:"omitempty,oneof=common rare epic legendary"`
	Points      *int             `json:"points" binding:"omitempty,min=1"`
	IconURL     *string          `json:"icon_url"`
	IsActive    *bool            `json:"is_active"`
	Criteria    *entity.Criteria `json:"criteria"`
}
