// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"oraculo/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	if err := MigrateAll(GetDB()); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ All migrations completed successfully")
}

// MigrateAll migrates every model on the given handle. Split out from
// RunMigrations so tests can migrate an in-memory database.
func MigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Accounts and auth
		&models.User{},
		&models.InvitationCode{},
		// Gamification
		&models.Level{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.DailyChallenge{},
		&models.LearningPath{},
		&models.PathChallenge{},
		&models.UserPathProgress{},
		// Teams and battles
		&models.Team{},
		&models.TeamBattle{},
		&models.TeamBattleChallenge{},
		// Boss fights
		&models.BossFight{},
		&models.BossFightStage{},
		&models.BossFightStep{},
		&models.TeamBossProgress{},
		&models.TeamBossCompletion{},
		// Events and hunts
		&models.GlobalEvent{},
		&models.GlobalEventContribution{},
		&models.ScavengerHunt{},
		&models.ScavengerHuntStep{},
		&models.UserHuntProgress{},
		// Content and ops
		&models.FAQ{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	createIndexes(db)
	return nil
}

// createIndexes creates supplementary indexes AutoMigrate does not cover
func createIndexes(db *gorm.DB) {
	// Ranking and battle sweep queries
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_points ON users(points DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_battles_active_deadline ON team_battles(status, end_time)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id, read)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_logs_action_time ON audit_logs(action, created_at DESC)")
}
