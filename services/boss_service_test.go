package services

import (
	"testing"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBoss(t *testing.T, db *gorm.DB, reward int) (*models.BossFight, []models.BossFightStep) {
	t.Helper()
	boss := &models.BossFight{
		Name: "Kernel Panic", Description: "d",
		RewardPoints: reward, IsActive: true,
	}
	require.NoError(t, db.Create(boss).Error)

	stage := models.BossFightStage{BossFightID: boss.ID, Name: "Fase 1", Order: 1}
	require.NoError(t, db.Create(&stage).Error)

	steps := []models.BossFightStep{
		{StageID: stage.ID, Description: "passo 1", ExpectedAnswer: "alpha"},
		{StageID: stage.ID, Description: "passo 2", ExpectedAnswer: "beta"},
	}
	for i := range steps {
		require.NoError(t, db.Create(&steps[i]).Error)
	}
	return boss, steps
}

func TestSubmitStepRequiresTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewBossService(db, NewGamificationService(db))
	loner := createUser(t, db, "loner", 0)

	_, err := svc.SubmitStep(loner, 1, "alpha")
	assert.ErrorIs(t, err, ErrNoTeam)
}

func TestSubmitStepFlow(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := NewBossService(db, NewGamificationService(db))

	owner := createUser(t, db, "owner", 0)
	mate := createUser(t, db, "mate", 0)
	createTeam(t, db, "Alpha", owner, mate)

	_, steps := seedBoss(t, db, 200)

	// Wrong answer
	sub, err := svc.SubmitStep(owner, steps[0].ID, "nope")
	require.NoError(t, err)
	assert.Equal(t, StepIncorrect, sub.Result)

	// Case-insensitive accept
	sub, err = svc.SubmitStep(owner, steps[0].ID, "  ALPHA ")
	require.NoError(t, err)
	assert.Equal(t, StepAcceptedOnly, sub.Result)

	// Teammate repeating the step converges to already completed
	sub, err = svc.SubmitStep(mate, steps[0].ID, "alpha")
	require.NoError(t, err)
	assert.Equal(t, StepAlreadyCompleted, sub.Result)

	// Final step clears the boss and pays every member once
	sub, err = svc.SubmitStep(mate, steps[1].ID, "beta")
	require.NoError(t, err)
	assert.Equal(t, StepAcceptedBossCleared, sub.Result)

	var u1, u2 models.User
	require.NoError(t, db.First(&u1, owner.ID).Error)
	require.NoError(t, db.First(&u2, mate.ID).Error)
	assert.Equal(t, 200, u1.Points)
	assert.Equal(t, 200, u2.Points)
	require.NotNil(t, u1.LevelID)

	var completions int64
	db.Model(&models.TeamBossCompletion{}).Count(&completions)
	assert.EqualValues(t, 1, completions)
}

func TestBossNoDoublePayout(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := NewBossService(db, NewGamificationService(db))

	owner := createUser(t, db, "owner", 0)
	createTeam(t, db, "Alpha", owner)

	boss, steps := seedBoss(t, db, 100)

	for _, step := range steps {
		_, err := svc.SubmitStep(owner, step.ID, step.ExpectedAnswer)
		require.NoError(t, err)
	}

	var fresh models.User
	require.NoError(t, db.First(&fresh, owner.ID).Error)
	require.Equal(t, 100, fresh.Points)

	// Re-submitting the last step cannot trigger a second payout
	sub, err := svc.SubmitStep(owner, steps[1].ID, steps[1].ExpectedAnswer)
	require.NoError(t, err)
	assert.Equal(t, StepAlreadyCompleted, sub.Result)

	require.NoError(t, db.First(&fresh, owner.ID).Error)
	assert.Equal(t, 100, fresh.Points)

	progress, err := svc.TeamProgress(*owner.TeamID, boss.ID)
	require.NoError(t, err)
	assert.Len(t, progress, 2)
}

func TestTwoTeamsProgressIndependently(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := NewBossService(db, NewGamificationService(db))

	ownerA := createUser(t, db, "ownerA", 0)
	ownerB := createUser(t, db, "ownerB", 0)
	createTeam(t, db, "Alpha", ownerA)
	createTeam(t, db, "Beta", ownerB)

	_, steps := seedBoss(t, db, 100)

	subA, err := svc.SubmitStep(ownerA, steps[0].ID, "alpha")
	require.NoError(t, err)
	assert.Equal(t, StepAcceptedOnly, subA.Result)

	// Team B's first submission of the same step is its own progress
	subB, err := svc.SubmitStep(ownerB, steps[0].ID, "alpha")
	require.NoError(t, err)
	assert.Equal(t, StepAcceptedOnly, subB.Result)
}
