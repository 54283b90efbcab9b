package services

import (
	"testing"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateDailyStableWithinDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewDailyService(db)

	createChallenge(t, db, "d1", 10)
	createChallenge(t, db, "d2", 10)

	first, err := svc.GetOrCreateDaily()
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, first.Challenge)

	second, err := svc.GetOrCreateDaily()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ChallengeID, second.ChallengeID)

	var rows int64
	db.Model(&models.DailyChallenge{}).Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestGetOrCreateDailyEmptyPlatform(t *testing.T) {
	db := newTestDB(t)
	svc := NewDailyService(db)

	daily, err := svc.GetOrCreateDaily()
	require.NoError(t, err)
	assert.Nil(t, daily)
}

func TestDailyExclusionWindowFallsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewDailyService(db)

	only := createChallenge(t, db, "only", 10)
	// The sole challenge was featured yesterday; the 30 day exclusion
	// empties the pool and the fallback reuses it
	require.NoError(t, db.Create(&models.DailyChallenge{
		Day: today().AddDate(0, 0, -1), ChallengeID: only.ID,
	}).Error)

	daily, err := svc.GetOrCreateDaily()
	require.NoError(t, err)
	require.NotNil(t, daily)
	assert.Equal(t, only.ID, daily.ChallengeID)
}

func TestDailyHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewDailyService(db)

	ch := createChallenge(t, db, "h", 10)
	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&models.DailyChallenge{
			Day: today().AddDate(0, 0, -i), ChallengeID: ch.ID,
		}).Error)
	}

	history, err := svc.History(2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Day.After(history[1].Day))
}
