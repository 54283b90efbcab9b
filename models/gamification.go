// models/gamification.go - Levels and achievements
package models

import "time"

// Level is a named tier over point totals. Tiers are keyed by MinPoints
// and must be unique; a user's level is the tier with the greatest
// MinPoints not exceeding their points.
type Level struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	MinPoints int       `gorm:"uniqueIndex;not null" json:"min_points"`
	Icon      string    `gorm:"size:100" json:"icon,omitempty"`
	Color     string    `gorm:"size:20" json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Achievement trigger types. An achievement fires when its counter
// reaches TriggerValue.
const (
	TriggerChallengesCompleted = "challenges_completed"
	TriggerPointsEarned        = "points_earned"
	TriggerPathsCompleted      = "paths_completed"
	TriggerFirstTeamJoin       = "first_team_join"
)

type Achievement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Description  string    `gorm:"not null;type:text" json:"description"`
	Icon         string    `gorm:"size:100" json:"icon,omitempty"`
	TriggerType  string    `gorm:"not null;size:50;index" json:"trigger_type"`
	TriggerValue int       `gorm:"not null" json:"trigger_value"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserAchievement is a grant. The composite unique index makes granting
// idempotent under concurrent evaluation.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (Level) TableName() string {
	return "levels"
}

func (Achievement) TableName() string {
	return "achievements"
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
