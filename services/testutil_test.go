// services/testutil_test.go - Shared fixtures for service tests
package services

import (
	"testing"

	"oraculo/database"
	"oraculo/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateAll(db))
	return db
}

// seedLevels installs a standard three tier ladder.
func seedLevels(t *testing.T, db *gorm.DB) []models.Level {
	t.Helper()
	levels := []models.Level{
		{Name: "Estagiário", MinPoints: 0},
		{Name: "Analista", MinPoints: 100},
		{Name: "Especialista", MinPoints: 500},
	}
	for i := range levels {
		require.NoError(t, db.Create(&levels[i]).Error)
	}
	return levels
}

func createUser(t *testing.T, db *gorm.DB, name string, points int) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    name + "@oraculo.test",
		Password: "x",
		Points:   points,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createChallenge(t *testing.T, db *gorm.DB, title string, reward int) *models.Challenge {
	t.Helper()
	challenge := &models.Challenge{
		Title:          title,
		Description:    "desc " + title,
		ExpectedAnswer: "42",
		ChallengeType:  models.ChallengeTypeText,
		PointsReward:   reward,
		HintCost:       5,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func createTeam(t *testing.T, db *gorm.DB, name string, owner *models.User, members ...*models.User) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, OwnerID: owner.ID}
	require.NoError(t, db.Create(team).Error)
	all := append([]*models.User{owner}, members...)
	for _, member := range all {
		member.TeamID = &team.ID
		require.NoError(t, db.Model(&models.User{}).
			Where("id = ?", member.ID).Update("team_id", team.ID).Error)
	}
	return team
}

func completeChallenge(t *testing.T, db *gorm.DB, user *models.User, challengeID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserChallenge{
		UserID:      user.ID,
		ChallengeID: challengeID,
		CompletedAt: nowUTC(),
	}).Error)
}
