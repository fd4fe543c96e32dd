package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelana.id/travelapp/internal/entity"
	badgeDto "kelana.id/travelapp/internal/modules/badge/dto"
)

func evalCriterion(t *testing.T, code string, stats badgeDto.UserStats, criteria entity.Criteria) (bool, error) {
	t.Helper()
	fn, ok := criterionFor(code)
	require.True(t, ok, "no predicate registered for %s", code)
	return fn(stats, criteria)
}

func TestFirstTripThreshold(t *testing.T) {
	met, err := evalCriterion(t, BadgeFirstTrip, badgeDto.UserStats{CompletedTrips: 0}, nil)
	require.NoError(t, err)
	assert.False(t, met)

	met, err = evalCriterion(t, BadgeFirstTrip, badgeDto.UserStats{CompletedTrips: 1}, nil)
	require.NoError(t, err)
	assert.True(t, met)

	// Still satisfied far past the threshold.
	met, err = evalCriterion(t, BadgeFirstTrip, badgeDto.UserStats{CompletedTrips: 5}, nil)
	require.NoError(t, err)
	assert.True(t, met)
}

func TestDistinctCountriesThresholds(t *testing.T) {
	stats := badgeDto.UserStats{DistinctCountries: 3}

	met, err := evalCriterion(t, BadgeCountryCollector, stats, nil)
	require.NoError(t, err)
	assert.False(t, met)

	met, err = evalCriterion(t, BadgeWorldWanderer, stats, nil)
	require.NoError(t, err)
	assert.False(t, met)

	stats.DistinctCountries = 15
	met, err = evalCriterion(t, BadgeWorldWanderer, stats, nil)
	require.NoError(t, err)
	assert.True(t, met)
}

func TestCriteriaPayloadOverridesDefault(t *testing.T) {
	stats := badgeDto.UserStats{CompletedTrips: 3}

	met, err := evalCriterion(t, BadgeGlobetrotter, stats, nil)
	require.NoError(t, err)
	assert.False(t, met, "default threshold is 5")

	met, err = evalCriterion(t, BadgeGlobetrotter, stats, entity.Criteria{"completedTrips": float64(3)})
	require.NoError(t, err)
	assert.True(t, met, "payload lowered the threshold to 3")
}

func TestSocialButterflyIsConjunctive(t *testing.T) {
	met, err := evalCriterion(t, BadgeSocialButterfly, badgeDto.UserStats{PublicTrips: 3, PhotoLikes: 10}, nil)
	require.NoError(t, err)
	assert.False(t, met, "likes below threshold")

	met, err = evalCriterion(t, BadgeSocialButterfly, badgeDto.UserStats{PublicTrips: 1, PhotoLikes: 40}, nil)
	require.NoError(t, err)
	assert.False(t, met, "public trips below threshold")

	met, err = evalCriterion(t, BadgeSocialButterfly, badgeDto.UserStats{PublicTrips: 3, PhotoLikes: 25}, nil)
	require.NoError(t, err)
	assert.True(t, met)
}

func TestSuperSaverUsesFloatThreshold(t *testing.T) {
	met, err := evalCriterion(t, BadgeSuperSaver, badgeDto.UserStats{TotalSaved: 999.99}, nil)
	require.NoError(t, err)
	assert.False(t, met)

	met, err = evalCriterion(t, BadgeSuperSaver, badgeDto.UserStats{TotalSaved: 1000}, nil)
	require.NoError(t, err)
	assert.True(t, met)
}

func TestMalformedCriteriaValueFailsThePredicate(t *testing.T) {
	_, err := evalCriterion(t, BadgeGlobetrotter, badgeDto.UserStats{CompletedTrips: 100}, entity.Criteria{"completedTrips": "five"})
	assert.Error(t, err)
}

func TestUnknownBadgeCodeHasNoPredicate(t *testing.T) {
	_, ok := criterionFor("MYSTERY_BADGE")
	assert.False(t, ok)
}

func TestCriteriaIntAcceptsNumericEncodings(t *testing.T) {
	for name, raw := range map[string]interface{}{
		"float64":     float64(7),
		"int":         int(7),
		"int64":       int64(7),
		"json.Number": json.Number("7"),
	} {
		got, err := criteriaInt(entity.Criteria{"n": raw}, "n", 0)
		require.NoError(t, err, name)
		assert.Equal(t, int64(7), got, name)
	}

	got, err := criteriaInt(entity.Criteria{}, "missing", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got, "missing key falls back to default")
}
