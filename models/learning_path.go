// models/learning_path.go
package models

import "time"

type LearningPath struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null;size:150" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	RewardPoints int       `gorm:"default:100" json:"reward_points"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	Challenges []PathChallenge `gorm:"foreignKey:PathID;constraint:OnDelete:CASCADE" json:"challenges,omitempty"`
}

// PathChallenge is the path membership row. Step is a display ordinal,
// conventionally sequential but not enforced unique.
type PathChallenge struct {
	PathID      uint `gorm:"primaryKey" json:"path_id"`
	ChallengeID uint `gorm:"primaryKey" json:"challenge_id"`
	Step        int  `gorm:"not null" json:"step"`

	Path      *LearningPath `gorm:"foreignKey:PathID" json:"-"`
	Challenge *Challenge    `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

// UserPathProgress exists only for fully completed paths; it is created
// in the same transaction that credits the path reward, at most once.
type UserPathProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_path" json:"user_id"`
	PathID      uint       `gorm:"not null;uniqueIndex:idx_user_path" json:"path_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	User *User         `gorm:"foreignKey:UserID" json:"-"`
	Path *LearningPath `gorm:"foreignKey:PathID" json:"path,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

func (PathChallenge) TableName() string {
	return "path_challenges"
}

func (UserPathProgress) TableName() string {
	return "user_path_progress"
}
