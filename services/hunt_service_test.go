package services

import (
	"testing"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedHunt(t *testing.T, db *gorm.DB, reward int) *models.ScavengerHunt {
	t.Helper()
	hunt := &models.ScavengerHunt{
		Name: "Caça ao Servidor", Description: "d",
		IsActive: true, RewardPoints: reward,
	}
	require.NoError(t, db.Create(hunt).Error)

	steps := []models.ScavengerHuntStep{
		{HuntID: hunt.ID, StepNumber: 1, ClueText: "pista 1",
			TargetType: models.HuntTargetFAQ, TargetIdentifier: "impressora", HiddenClue: "segredo 1"},
		{HuntID: hunt.ID, StepNumber: 2, ClueText: "pista 2",
			TargetType: models.HuntTargetChallenge, TargetIdentifier: "roteador", HiddenClue: "segredo 2"},
	}
	for i := range steps {
		require.NoError(t, db.Create(&steps[i]).Error)
	}
	return hunt
}

func TestHuntLifecycle(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := NewHuntService(db, NewGamificationService(db))

	hunt := seedHunt(t, db, 100)
	user := createUser(t, db, "ana", 0)

	// Submitting before starting
	_, err := svc.SubmitAnswer(user, hunt.ID, "impressora")
	assert.ErrorIs(t, err, ErrHuntNotJoined)

	status, err := svc.StartHunt(user, hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStep)
	require.NotNil(t, status.Clue)
	assert.Equal(t, "pista 1", status.Clue.ClueText)

	// Starting again keeps the position
	status, err = svc.StartHunt(user, hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStep)

	// Wrong guess
	result, err := svc.SubmitAnswer(user, hunt.ID, "monitor")
	require.NoError(t, err)
	assert.False(t, result.Correct)

	// Correct guess reveals the hidden clue and advances
	result, err = svc.SubmitAnswer(user, hunt.ID, " IMPRESSORA ")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, "segredo 1", result.HiddenClue)
	require.NotNil(t, result.NextStep)
	assert.Equal(t, 2, result.NextStep.StepNumber)

	// Final step pays the reward and resolves the level
	result, err = svc.SubmitAnswer(user, hunt.ID, "roteador")
	require.NoError(t, err)
	assert.True(t, result.HuntCompleted)
	assert.Equal(t, 100, result.PointsAwarded)
	assert.True(t, result.LeveledUp)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 100, fresh.Points)

	// Finished hunts reject further submissions
	_, err = svc.SubmitAnswer(user, hunt.ID, "roteador")
	assert.ErrorIs(t, err, ErrHuntFinished)
}

func TestHuntInactiveRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewHuntService(db, NewGamificationService(db))

	hunt := seedHunt(t, db, 50)
	require.NoError(t, db.Model(&models.ScavengerHunt{}).
		Where("id = ?", hunt.ID).Update("is_active", false).Error)

	user := createUser(t, db, "bia", 0)
	_, err := svc.StartHunt(user, hunt.ID)
	assert.ErrorIs(t, err, ErrHuntInactive)
}

func TestHuntStatusHidesLaterClues(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := NewHuntService(db, NewGamificationService(db))

	hunt := seedHunt(t, db, 50)
	user := createUser(t, db, "caio", 0)

	_, err := svc.StartHunt(user, hunt.ID)
	require.NoError(t, err)

	status, err := svc.Status(user, hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalSteps)
	assert.False(t, status.Completed)
	require.NotNil(t, status.Clue)
	assert.Equal(t, 1, status.Clue.StepNumber)
}
