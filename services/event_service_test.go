package services

import (
	"testing"
	"time"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEvent(t *testing.T, db *gorm.DB, hp int64) *models.GlobalEvent {
	t.Helper()
	now := time.Now().UTC()
	event := &models.GlobalEvent{
		Name: "Tempestade de Tickets", Description: "d",
		TotalHP: hp, CurrentHP: hp,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		IsActive: true,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestActiveEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)

	event, err := svc.ActiveEvent(db)
	require.NoError(t, err)
	assert.Nil(t, event)

	seeded := seedEvent(t, db, 100)
	event, err = svc.ActiveEvent(db)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, seeded.ID, event.ID)

	// Zero HP means no longer active
	require.NoError(t, db.Model(&models.GlobalEvent{}).
		Where("id = ?", seeded.ID).Update("current_hp", 0).Error)
	event, err = svc.ActiveEvent(db)
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestApplyDamageAccumulatesAndFloors(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	event := seedEvent(t, db, 25)
	user := createUser(t, db, "ana", 0)

	defeated, err := svc.ApplyDamage(db, event, user.ID, 10)
	require.NoError(t, err)
	assert.False(t, defeated)
	assert.EqualValues(t, 15, event.CurrentHP)

	// Overkill floors at zero but the ledger keeps the full amount
	defeated, err = svc.ApplyDamage(db, event, user.ID, 40)
	require.NoError(t, err)
	assert.True(t, defeated)
	assert.EqualValues(t, 0, event.CurrentHP)

	contributions, err := svc.Contributions(event.ID)
	require.NoError(t, err)
	require.Len(t, contributions, 1)
	assert.Equal(t, 50, contributions[0].ContributionPoints)
}

func TestApplyDamageZeroAmountIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	event := seedEvent(t, db, 25)

	defeated, err := svc.ApplyDamage(db, event, 1, 0)
	require.NoError(t, err)
	assert.False(t, defeated)
	assert.EqualValues(t, 25, event.CurrentHP)
}

func TestContributionsOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	event := seedEvent(t, db, 1000)

	small := createUser(t, db, "small", 0)
	big := createUser(t, db, "big", 0)

	_, err := svc.ApplyDamage(db, event, small.ID, 10)
	require.NoError(t, err)
	_, err = svc.ApplyDamage(db, event, big.ID, 200)
	require.NoError(t, err)

	contributions, err := svc.Contributions(event.ID)
	require.NoError(t, err)
	require.Len(t, contributions, 2)
	assert.Equal(t, big.ID, contributions[0].UserID)
	assert.Equal(t, 200, contributions[0].ContributionPoints)
}
