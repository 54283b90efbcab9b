// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null;size:100" json:"name"`
	Email    string `gorm:"uniqueIndex;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`
	Phone    string `gorm:"size:20" json:"phone,omitempty"`
	Avatar   string `gorm:"size:255" json:"avatar,omitempty"`

	// Progression (mutated only by the gamification engine)
	Points  int    `gorm:"default:0;index" json:"points"`
	LevelID *uint  `gorm:"index" json:"level_id,omitempty"`
	Level   *Level `gorm:"foreignKey:LevelID" json:"level,omitempty"`

	// Team membership (nil while unaffiliated)
	TeamID *uint `gorm:"index" json:"team_id,omitempty"`
	Team   *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Achievements        []UserAchievement         `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	CompletedChallenges []UserChallenge           `gorm:"foreignKey:UserID" json:"completed_challenges,omitempty"`
	PathProgress        []UserPathProgress        `gorm:"foreignKey:UserID" json:"path_progress,omitempty"`
	EventContributions  []GlobalEventContribution `gorm:"foreignKey:UserID" json:"event_contributions,omitempty"`
}

// InvitationCode gates registration of new users.
type InvitationCode struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"uniqueIndex;not null;size:36" json:"code"`
	Used         bool      `gorm:"default:false" json:"used"`
	UsedByUserID *uint     `json:"used_by_user_id,omitempty"`
	UsedByUser   *User     `gorm:"foreignKey:UsedByUserID" json:"used_by_user,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (InvitationCode) TableName() string {
	return "invitation_codes"
}
