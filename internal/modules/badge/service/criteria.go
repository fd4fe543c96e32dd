package service

import (
	"encoding/json"
	"fmt"

	"kelana.id/travelapp/internal/entity"
	badgeDto "kelana.id/travelapp/internal/modules/badge/dto"
)

// CriterionFunc decides whether a user's stats satisfy one badge. The
// criteria payload supplies thresholds; every predicate falls back to a
// built-in default when its key is missing. Comparisons are always
// "statistic >= threshold" so earned badges stay earned as stats grow.
type CriterionFunc func(stats badgeDto.UserStats, criteria entity.Criteria) (bool, error)

// Badge codes known to the rule table. Adding a badge means inserting a
// catalog row and registering one entry here.
const (
	BadgeFirstTrip            = "FIRST_TRIP"
	BadgeGlobetrotter         = "GLOBETROTTER"
	BadgeRoadWarrior          = "ROAD_WARRIOR"
	BadgeCountryCollector     = "COUNTRY_COLLECTOR"
	BadgeWorldWanderer        = "WORLD_WANDERER"
	BadgeOpenRoad             = "OPEN_ROAD"
	BadgeSocialButterfly      = "SOCIAL_BUTTERFLY"
	BadgeCrowdFavorite        = "CROWD_FAVORITE"
	BadgeConversationStarter  = "CONVERSATION_STARTER"
	BadgeBudgetMaster         = "BUDGET_MASTER"
	BadgeSuperSaver           = "SUPER_SAVER"
	BadgeFirstStory           = "FIRST_STORY"
	BadgeStoryteller          = "STORYTELLER"
	BadgeShutterbug           = "SHUTTERBUG"
)

// criteriaTable maps badge code to its predicate. Populated once at init,
// read-only afterwards.
var criteriaTable = map[string]CriterionFunc{
	BadgeFirstTrip: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "completedTrips", 1)
		return s.CompletedTrips >= min, err
	},
	BadgeGlobetrotter: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "completedTrips", 5)
		return s.CompletedTrips >= min, err
	},
	BadgeRoadWarrior: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "completedTrips", 20)
		return s.CompletedTrips >= min, err
	},
	BadgeCountryCollector: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "distinctCountries", 5)
		return s.DistinctCountries >= min, err
	},
	BadgeWorldWanderer: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "distinctCountries", 15)
		return s.DistinctCountries >= min, err
	},
	BadgeOpenRoad: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "publicTrips", 3)
		return s.PublicTrips >= min, err
	},
	// Conjunctive: both thresholds must hold.
	BadgeSocialButterfly: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		minTrips, err := criteriaInt(c, "publicTrips", 3)
		if err != nil {
			return false, err
		}
		minLikes, err := criteriaInt(c, "photoLikes", 25)
		if err != nil {
			return false, err
		}
		return s.PublicTrips >= minTrips && s.PhotoLikes >= minLikes, nil
	},
	BadgeCrowdFavorite: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "photoLikes", 100)
		return s.PhotoLikes >= min, err
	},
	BadgeConversationStarter: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "photoComments", 50)
		return s.PhotoComments >= min, err
	},
	BadgeBudgetMaster: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "budgetTrips", 3)
		return s.UnderBudgetTrips >= min, err
	},
	BadgeSuperSaver: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaFloat(c, "totalSaved", 1000)
		return s.TotalSaved >= min, err
	},
	BadgeFirstStory: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "journalEntries", 1)
		return s.JournalEntries >= min, err
	},
	BadgeStoryteller: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "journalEntries", 10)
		return s.JournalEntries >= min, err
	},
	BadgeShutterbug: func(s badgeDto.UserStats, c entity.Criteria) (bool, error) {
		min, err := criteriaInt(c, "photos", 50)
		return s.Photos >= min, err
	},
}

// criterionFor returns the predicate for a badge code. A badge with no
// predicate is skipped by the orchestrator, never treated as satisfied.
func criterionFor(code string) (CriterionFunc, bool) {
	fn, ok := criteriaTable[code]
	return fn, ok
}

// criteriaInt extracts an integer threshold from the loosely typed payload.
// Numbers arrive as float64 or json.Number after jsonb round-trips; anything
// else is a malformed payload and fails just this badge's evaluation.
func criteriaInt(c entity.Criteria, key string, def int64) (int64, error) {
	raw, ok := c[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("criteria key %q has non-numeric value %v", key, raw)
	}
}

func criteriaFloat(c entity.Criteria, key string, def float64) (float64, error) {
	raw, ok := c[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("criteria key %q has non-numeric value %v", key, raw)
	}
}
