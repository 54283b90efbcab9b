// models/challenge.go
package models

import "time"

// Challenge types. Answers to code challenges compare case-sensitively,
// everything else compares case-insensitively.
const (
	ChallengeTypeText = "text"
	ChallengeTypeCode = "code"
)

type Challenge struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null;size:200" json:"title"`
	Description     string    `gorm:"not null;type:text" json:"description"`
	ExpectedAnswer  string    `gorm:"not null;size:500" json:"-"`
	ExpectedOutput  string    `gorm:"type:text" json:"-"`
	ChallengeType   string    `gorm:"not null;size:50;default:'text'" json:"challenge_type"`
	PointsReward    int       `gorm:"default:10" json:"points_reward"`
	LevelRequired   string    `gorm:"size:50;default:'Iniciante'" json:"level_required"`
	IsTeamChallenge bool      `gorm:"default:false" json:"is_team_challenge"`
	Hint            string    `gorm:"type:text" json:"-"`
	HintCost        int       `gorm:"default:5" json:"hint_cost"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserChallenge records a completion. The composite unique index is the
// canonical "already completed" guard; a duplicate-key error on insert
// means another request got there first.
type UserChallenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	CompletedAt time.Time `json:"completed_at"`

	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Challenge *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

// DailyChallenge binds one challenge to a calendar day for bonus points.
type DailyChallenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Day         time.Time `gorm:"uniqueIndex;not null;type:date" json:"day"`
	ChallengeID uint      `gorm:"not null" json:"challenge_id"`
	BonusPoints int       `gorm:"default:20" json:"bonus_points"`
	CreatedAt   time.Time `json:"created_at"`

	Challenge *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

func (UserChallenge) TableName() string {
	return "user_challenges"
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}
