package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/myritu/internal/models"
)

func TestProfileServiceUpdateKeepsOnlyAllowListedFields(t *testing.T) {
	t.Parallel()

	repo := &stubProfileRepo{profile: models.Profile{AvgCycleLength: 28, AvgPeriodLength: 5}}
	service := NewProfileService(repo)

	profile, err := service.Update(7, map[string]any{
		"avg_ritu_length": float64(30),
		"life_stage":      LifeStagePerimenopause,
		"full_name":       "  Meera  ",
		"password_hash":   "overwrite",
		"user_id":         float64(99),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"avg_ritu_length": 30,
		"life_stage":      LifeStagePerimenopause,
		"full_name":       "Meera",
	}, repo.lastUpdates)
	assert.Equal(t, uint(7), profile.UserID)
	assert.Equal(t, 30, profile.AvgCycleLength)
	assert.Equal(t, "Meera", profile.FullName)
}

func TestProfileServiceUpdateRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		fields map[string]any
	}{
		{name: "cycle length below range", fields: map[string]any{"avg_ritu_length": float64(10)}},
		{name: "cycle length fractional", fields: map[string]any{"avg_ritu_length": 28.5}},
		{name: "cycle length as text", fields: map[string]any{"avg_ritu_length": "28"}},
		{name: "period length above range", fields: map[string]any{"avg_period_length": float64(20)}},
		{name: "impossible birth date", fields: map[string]any{"birth_date": "2024-13-01"}},
		{name: "unknown life stage", fields: map[string]any{"life_stage": "Teenager"}},
		{name: "name not text", fields: map[string]any{"full_name": float64(5)}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			repo := &stubProfileRepo{}
			_, err := NewProfileService(repo).Update(1, testCase.fields)
			assert.ErrorIs(t, err, ErrInvalidProfileField)
			assert.Nil(t, repo.lastUpdates, "nothing should be written")
		})
	}
}

func TestProfileServiceUpdateWithoutAllowListedFields(t *testing.T) {
	t.Parallel()

	repo := &stubProfileRepo{}
	_, err := NewProfileService(repo).Update(1, map[string]any{"is_admin": true})
	assert.ErrorIs(t, err, ErrNoValidProfileFields)
}

func TestProfileServiceUpdateClearsDatesWithEmptyText(t *testing.T) {
	t.Parallel()

	repo := &stubProfileRepo{profile: models.Profile{LastPeriodStart: "2024-01-01"}}
	profile, err := NewProfileService(repo).Update(1, map[string]any{"last_period_start": nil})
	require.NoError(t, err)
	assert.Empty(t, profile.LastPeriodStart)
}

func TestProfileFieldAllowListIsSorted(t *testing.T) {
	t.Parallel()

	fields := ProfileFieldAllowList()
	assert.IsIncreasing(t, fields)
	assert.Contains(t, fields, "avg_ritu_length")
	assert.NotContains(t, fields, "user_id")
}

func TestNeedsSetup(t *testing.T) {
	t.Parallel()

	assert.True(t, NeedsSetup(models.Profile{AvgCycleLength: 28}))
	assert.True(t, NeedsSetup(models.Profile{BirthDate: "1995-02-03"}))
	assert.False(t, NeedsSetup(models.Profile{AvgCycleLength: 28, BirthDate: "1995-02-03"}))
}
