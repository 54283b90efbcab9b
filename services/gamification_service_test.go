package services

import (
	"testing"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLevel(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	gam := NewGamificationService(db)

	cases := []struct {
		points int
		want   string
	}{
		{0, "Estagiário"},
		{99, "Estagiário"},
		{100, "Analista"},
		{499, "Analista"},
		{500, "Especialista"},
		{10000, "Especialista"},
	}
	for _, tc := range cases {
		level, err := gam.ResolveLevel(db, tc.points)
		require.NoError(t, err)
		assert.Equal(t, tc.want, level.Name, "points=%d", tc.points)
	}
}

func TestResolveLevelNoneConfigured(t *testing.T) {
	db := newTestDB(t)
	gam := NewGamificationService(db)

	_, err := gam.ResolveLevel(db, 50)
	assert.ErrorIs(t, err, ErrNoLevelConfigured)
}

func TestUpdateUserLevelBidirectional(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	gam := NewGamificationService(db)

	user := createUser(t, db, "ana", 0)
	up, level, err := gam.UpdateUserLevel(db, user)
	require.NoError(t, err)
	assert.True(t, up)
	assert.Equal(t, "Estagiário", level.Name)

	user.Points = 150
	up, level, err = gam.UpdateUserLevel(db, user)
	require.NoError(t, err)
	assert.True(t, up)
	assert.Equal(t, "Analista", level.Name)

	// Same tier, no movement
	up, _, err = gam.UpdateUserLevel(db, user)
	require.NoError(t, err)
	assert.False(t, up)

	// Debit drops the tier and does not count as leveling up
	user.Points = 40
	up, level, err = gam.UpdateUserLevel(db, user)
	require.NoError(t, err)
	assert.False(t, up)
	assert.Equal(t, "Estagiário", level.Name)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.NotNil(t, fresh.LevelID)
	assert.Equal(t, level.ID, *fresh.LevelID)
}

func TestEvaluateAchievementsGrantsOnce(t *testing.T) {
	db := newTestDB(t)
	gam := NewGamificationService(db)

	require.NoError(t, db.Create(&models.Achievement{
		Name: "Primeiro Chamado", Description: "d",
		TriggerType: models.TriggerChallengesCompleted, TriggerValue: 1,
	}).Error)

	user := createUser(t, db, "bruno", 0)
	challenge := createChallenge(t, db, "c1", 10)

	granted, err := gam.EvaluateAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)

	completeChallenge(t, db, user, challenge.ID)

	granted, err = gam.EvaluateAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "Primeiro Chamado", granted[0].Name)

	// Idempotent: unchanged stats grant nothing
	granted, err = gam.EvaluateAchievements(db, user)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestEvaluateAchievementsTriggers(t *testing.T) {
	db := newTestDB(t)
	gam := NewGamificationService(db)

	require.NoError(t, db.Create(&models.Achievement{
		Name: "Centurião", Description: "d",
		TriggerType: models.TriggerPointsEarned, TriggerValue: 100,
	}).Error)
	require.NoError(t, db.Create(&models.Achievement{
		Name: "Espírito de Equipe", Description: "d",
		TriggerType: models.TriggerFirstTeamJoin, TriggerValue: 1,
	}).Error)

	user := createUser(t, db, "clara", 100)
	granted, err := gam.EvaluateAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "Centurião", granted[0].Name)

	owner := createUser(t, db, "dono", 0)
	createTeam(t, db, "Suporte N1", owner, user)

	granted, err = gam.EvaluateAchievements(db, user)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "Espírito de Equipe", granted[0].Name)
}

func TestCheckPathsSubsetCompletion(t *testing.T) {
	db := newTestDB(t)
	seedLevels(t, db)
	gam := NewGamificationService(db)

	c1 := createChallenge(t, db, "redes-1", 10)
	c2 := createChallenge(t, db, "redes-2", 10)
	path := &models.LearningPath{Name: "Redes", RewardPoints: 50, IsActive: true}
	require.NoError(t, db.Create(path).Error)
	require.NoError(t, db.Create(&models.PathChallenge{PathID: path.ID, ChallengeID: c1.ID, Step: 1}).Error)
	require.NoError(t, db.Create(&models.PathChallenge{PathID: path.ID, ChallengeID: c2.ID, Step: 2}).Error)

	user := createUser(t, db, "edu", 20)

	// Only one of two done: not complete
	completeChallenge(t, db, user, c1.ID)
	paths, _, err := gam.CheckPaths(db, user, c1.ID)
	require.NoError(t, err)
	assert.Empty(t, paths)

	completeChallenge(t, db, user, c2.ID)
	paths, _, err = gam.CheckPaths(db, user, c2.ID)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "Redes", paths[0].Name)
	assert.Equal(t, 70, user.Points)

	var progress int64
	db.Model(&models.UserPathProgress{}).
		Where("user_id = ? AND path_id = ?", user.ID, path.ID).Count(&progress)
	assert.EqualValues(t, 1, progress)

	// Re-check is a no-op, no double reward
	paths, _, err = gam.CheckPaths(db, user, c2.ID)
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Equal(t, 70, user.Points)
}
