package services

import (
	"testing"
	"time"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBattleChallenges(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		createChallenge(t, db, "battle-pool-"+string(rune('a'+i)), 10)
	}
}

func TestStartBattleValidations(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	gam := NewGamificationService(db)
	svc := NewBattleService(db, gam)

	loner := createUser(t, db, "loner", 0)
	_, err := svc.StartBattle(loner, 1)
	assert.ErrorIs(t, err, ErrNoTeam)

	ownerA := createUser(t, db, "ownerA", 0)
	member := createUser(t, db, "member", 0)
	teamA := createTeam(t, db, "Alpha", ownerA, member)
	ownerB := createUser(t, db, "ownerB", 0)
	teamB := createTeam(t, db, "Beta", ownerB)

	_, err = svc.StartBattle(member, teamB.ID)
	assert.ErrorIs(t, err, ErrNotTeamOwner)

	_, err = svc.StartBattle(ownerA, teamA.ID)
	assert.ErrorIs(t, err, ErrSelfBattle)

	_, err = svc.StartBattle(ownerA, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.StartBattle(ownerA, teamB.ID)
	assert.ErrorIs(t, err, ErrNotEnoughChallenges)

	seedBattleChallenges(t, db, models.BattleChallengeCount+1)

	battle, err := svc.StartBattle(ownerA, teamB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BattleStatusActive, battle.Status)

	var bound int64
	db.Model(&models.TeamBattleChallenge{}).
		Where("battle_id = ?", battle.ID).Count(&bound)
	assert.EqualValues(t, models.BattleChallengeCount, bound)

	// Duplicate pair is rejected in both directions
	_, err = svc.StartBattle(ownerA, teamB.ID)
	assert.ErrorIs(t, err, ErrBattleExists)
	_, err = svc.StartBattle(ownerB, teamA.ID)
	assert.ErrorIs(t, err, ErrBattleExists)
}

func TestFinalizeEndedBattles(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	gam := NewGamificationService(db)
	svc := NewBattleService(db, gam)

	ownerA := createUser(t, db, "ownerA", 0)
	ownerB := createUser(t, db, "ownerB", 0)
	teamA := createTeam(t, db, "Alpha", ownerA)
	teamB := createTeam(t, db, "Beta", ownerB)

	c1 := createChallenge(t, db, "f1", 10)
	c2 := createChallenge(t, db, "f2", 10)
	c3 := createChallenge(t, db, "f3", 10)

	past := time.Now().UTC().Add(-time.Minute)
	battle := models.TeamBattle{
		ChallengingTeamID: teamA.ID, ChallengedTeamID: teamB.ID,
		StartTime: past.Add(-models.BattleDuration), EndTime: past,
		Status: models.BattleStatusActive, RewardPoints: 150,
	}
	require.NoError(t, db.Create(&battle).Error)
	for _, ch := range []*models.Challenge{c1, c2, c3} {
		require.NoError(t, db.Create(&models.TeamBattleChallenge{
			BattleID: battle.ID, ChallengeID: ch.ID,
		}).Error)
	}

	// A claims two, B claims one
	claims, err := svc.ClaimForTeam(db, teamA.ID, c1.ID)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	_, err = svc.ClaimForTeam(db, teamA.ID, c2.ID)
	require.NoError(t, err)
	_, err = svc.ClaimForTeam(db, teamB.ID, c3.ID)
	require.NoError(t, err)

	// The first claimer keeps the challenge
	claims, err = svc.ClaimForTeam(db, teamB.ID, c1.ID)
	require.NoError(t, err)
	assert.Empty(t, claims)

	finalized, err := svc.FinalizeEndedBattles()
	require.NoError(t, err)
	require.Len(t, finalized, 1)
	assert.Equal(t, 2, finalized[0].ChallengerScore)
	assert.Equal(t, 1, finalized[0].ChallengedScore)
	require.NotNil(t, finalized[0].WinnerTeam)
	assert.Equal(t, teamA.ID, finalized[0].WinnerTeam.ID)

	var winner models.User
	require.NoError(t, db.First(&winner, ownerA.ID).Error)
	assert.Equal(t, 150, winner.Points)

	var loser models.User
	require.NoError(t, db.First(&loser, ownerB.ID).Error)
	assert.Equal(t, 0, loser.Points)

	// Second sweep finds nothing; no double payout
	finalized, err = svc.FinalizeEndedBattles()
	require.NoError(t, err)
	assert.Empty(t, finalized)

	var fresh models.TeamBattle
	require.NoError(t, db.First(&fresh, battle.ID).Error)
	assert.Equal(t, models.BattleStatusCompleted, fresh.Status)
	require.NotNil(t, fresh.WinnerTeamID)
	assert.Equal(t, teamA.ID, *fresh.WinnerTeamID)
}

func TestFinalizeTieHasNoWinner(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	gam := NewGamificationService(db)
	svc := NewBattleService(db, gam)

	ownerA := createUser(t, db, "ownerA", 0)
	ownerB := createUser(t, db, "ownerB", 0)
	teamA := createTeam(t, db, "Alpha", ownerA)
	teamB := createTeam(t, db, "Beta", ownerB)

	c1 := createChallenge(t, db, "t1", 10)
	c2 := createChallenge(t, db, "t2", 10)

	battle := models.TeamBattle{
		ChallengingTeamID: teamA.ID, ChallengedTeamID: teamB.ID,
		StartTime: time.Now().UTC().Add(-2 * time.Hour),
		EndTime:   time.Now().UTC().Add(-time.Hour),
		Status:    models.BattleStatusActive, RewardPoints: 150,
	}
	require.NoError(t, db.Create(&battle).Error)
	for _, ch := range []*models.Challenge{c1, c2} {
		require.NoError(t, db.Create(&models.TeamBattleChallenge{
			BattleID: battle.ID, ChallengeID: ch.ID,
		}).Error)
	}

	_, err := svc.ClaimForTeam(db, teamA.ID, c1.ID)
	require.NoError(t, err)
	_, err = svc.ClaimForTeam(db, teamB.ID, c2.ID)
	require.NoError(t, err)

	finalized, err := svc.FinalizeEndedBattles()
	require.NoError(t, err)
	require.Len(t, finalized, 1)
	assert.Nil(t, finalized[0].WinnerTeam)

	var winnerPoints models.User
	require.NoError(t, db.First(&winnerPoints, ownerA.ID).Error)
	assert.Equal(t, 0, winnerPoints.Points)

	var fresh models.TeamBattle
	require.NoError(t, db.First(&fresh, battle.ID).Error)
	assert.Equal(t, models.BattleStatusCompleted, fresh.Status)
	assert.Nil(t, fresh.WinnerTeamID)
}
