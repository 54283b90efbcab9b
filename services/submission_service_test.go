package services

import (
	"context"
	"testing"
	"time"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubmissionStack(db *gorm.DB) *SubmissionService {
	gam := NewGamificationService(db)
	return NewSubmissionService(
		db,
		gam,
		NewEventService(db),
		NewBattleService(db, gam),
		NewDailyService(db),
		ExactMatchValidator{},
		nil,
		nil,
	)
}

func TestSubmitCorrectAnswer(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	user := createUser(t, db, "ana", 0)
	challenge := createChallenge(t, db, "dns-basics", 10)

	result, err := svc.Submit(context.Background(), user, challenge.ID, "42")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, 10, result.PointsAwarded)
	assert.Equal(t, 10, result.TotalPoints)
	assert.True(t, result.LeveledUp)
	require.NotNil(t, result.NewLevel)
	assert.Equal(t, "Estagiário", result.NewLevel.Name)

	var completions int64
	db.Model(&models.UserChallenge{}).
		Where("user_id = ? AND challenge_id = ?", user.ID, challenge.ID).
		Count(&completions)
	assert.EqualValues(t, 1, completions)
}

func TestSubmitIncorrectAnswer(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	user := createUser(t, db, "bia", 0)
	challenge := createChallenge(t, db, "dhcp", 10)

	result, err := svc.Submit(context.Background(), user, challenge.ID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, result.Outcome)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 0, fresh.Points)
}

func TestSubmitEmptyAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionStack(db)
	user := createUser(t, db, "caio", 0)

	_, err := svc.Submit(context.Background(), user, 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestSubmitUnknownChallenge(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionStack(db)
	user := createUser(t, db, "dani", 0)

	_, err := svc.Submit(context.Background(), user, 999, "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitDuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	user := createUser(t, db, "eva", 0)
	challenge := createChallenge(t, db, "vpn", 10)

	first, err := svc.Submit(context.Background(), user, challenge.ID, "42")
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, first.Outcome)

	second, err := svc.Submit(context.Background(), user, challenge.ID, "42")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCompleted, second.Outcome)
	assert.Equal(t, 0, second.PointsAwarded)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 10, fresh.Points)

	var completions int64
	db.Model(&models.UserChallenge{}).Where("user_id = ?", user.ID).Count(&completions)
	assert.EqualValues(t, 1, completions)
}

func TestSubmitDailyBonus(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	user := createUser(t, db, "gil", 0)
	challenge := createChallenge(t, db, "backup", 10)
	require.NoError(t, db.Create(&models.DailyChallenge{
		Day: today(), ChallengeID: challenge.ID, BonusPoints: 20,
	}).Error)

	result, err := svc.Submit(context.Background(), user, challenge.ID, "42")
	require.NoError(t, err)
	assert.Equal(t, 10, result.PointsAwarded)
	assert.Equal(t, 20, result.DailyBonus)
	assert.Equal(t, 30, result.TotalPoints)
}

func TestSubmitAppliesEventDamage(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	now := time.Now().UTC()
	event := models.GlobalEvent{
		Name: "Servidor Fantasma", Description: "d",
		TotalHP: 100, CurrentHP: 5,
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		IsActive: true,
	}
	require.NoError(t, db.Create(&event).Error)

	user := createUser(t, db, "hugo", 0)
	challenge := createChallenge(t, db, "firewall", 10)

	result, err := svc.Submit(context.Background(), user, challenge.ID, "42")
	require.NoError(t, err)
	assert.Equal(t, 10, result.EventDamage)
	assert.True(t, result.EventDefeated)
	assert.Equal(t, "Servidor Fantasma", result.EventName)

	var fresh models.GlobalEvent
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.EqualValues(t, 0, fresh.CurrentHP)

	// Contribution records the full amount, overkill included
	var contribution models.GlobalEventContribution
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).
		First(&contribution).Error)
	assert.Equal(t, 10, contribution.ContributionPoints)
}

func TestSubmitClaimsBattleChallenge(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	ownerA := createUser(t, db, "ownerA", 0)
	ownerB := createUser(t, db, "ownerB", 0)
	teamA := createTeam(t, db, "Alpha", ownerA)
	teamB := createTeam(t, db, "Beta", ownerB)

	challenge := createChallenge(t, db, "contested", 10)
	battle := models.TeamBattle{
		ChallengingTeamID: teamA.ID, ChallengedTeamID: teamB.ID,
		StartTime: time.Now().UTC(), EndTime: time.Now().UTC().Add(time.Hour),
		Status: models.BattleStatusActive,
	}
	require.NoError(t, db.Create(&battle).Error)
	require.NoError(t, db.Create(&models.TeamBattleChallenge{
		BattleID: battle.ID, ChallengeID: challenge.ID,
	}).Error)

	result, err := svc.Submit(context.Background(), ownerA, challenge.ID, "42")
	require.NoError(t, err)
	require.Len(t, result.BattleClaims, 1)
	assert.Equal(t, battle.ID, result.BattleClaims[0])

	// Opponent solves the same challenge, the claim does not move
	result, err = svc.Submit(context.Background(), ownerB, challenge.ID, "42")
	require.NoError(t, err)
	assert.Empty(t, result.BattleClaims)

	var binding models.TeamBattleChallenge
	require.NoError(t, db.Where("battle_id = ?", battle.ID).First(&binding).Error)
	require.NotNil(t, binding.CompletedByTeamID)
	assert.Equal(t, teamA.ID, *binding.CompletedByTeamID)
}

func TestSubmitCompletesPathAndGrantsAchievements(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	challenge := createChallenge(t, db, "so-1", 10)
	path := &models.LearningPath{Name: "Sistemas", RewardPoints: 90, IsActive: true}
	require.NoError(t, db.Create(path).Error)
	require.NoError(t, db.Create(&models.PathChallenge{
		PathID: path.ID, ChallengeID: challenge.ID, Step: 1,
	}).Error)
	require.NoError(t, db.Create(&models.Achievement{
		Name: "Trilheiro", Description: "d",
		TriggerType: models.TriggerPathsCompleted, TriggerValue: 1,
	}).Error)

	user := createUser(t, db, "iris", 0)
	result, err := svc.Submit(context.Background(), user, challenge.ID, "42")
	require.NoError(t, err)

	require.Len(t, result.CompletedPaths, 1)
	assert.Equal(t, 100, result.TotalPoints) // 10 challenge + 90 path
	require.NotEmpty(t, result.Achievements)
	assert.Equal(t, "Trilheiro", result.Achievements[0].Name)
	assert.Equal(t, "Analista", result.NewLevel.Name)
}

func TestPurchaseHint(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	svc := newSubmissionStack(db)

	challenge := createChallenge(t, db, "hinted", 10)
	require.NoError(t, db.Model(&models.Challenge{}).
		Where("id = ?", challenge.ID).Update("hint", "look closer").Error)

	poor := createUser(t, db, "sem-pontos", 2)
	_, _, err := svc.PurchaseHint(context.Background(), poor, challenge.ID, StoredHintGenerator{}, 0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	rich := createUser(t, db, "rico", 100)
	hint, cost, err := svc.PurchaseHint(context.Background(), rich, challenge.ID, StoredHintGenerator{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "look closer", hint)
	assert.Equal(t, 5, cost)
	assert.Equal(t, 95, rich.Points)

	var fresh models.User
	require.NoError(t, db.First(&fresh, rich.ID).Error)
	assert.Equal(t, 95, fresh.Points)
}
