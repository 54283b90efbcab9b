// models/boss_fight.go - Team-cooperative boss encounters
package models

import "time"

type BossFight struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Description  string    `gorm:"not null;type:text" json:"description"`
	RewardPoints int       `gorm:"not null" json:"reward_points"`
	IsActive     bool      `gorm:"default:false;index" json:"is_active"`
	ImageURL     string    `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Stages []BossFightStage `gorm:"foreignKey:BossFightID;constraint:OnDelete:CASCADE" json:"stages,omitempty"`
}

type BossFightStage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BossFightID uint   `gorm:"not null;index" json:"boss_fight_id"`
	Name        string `gorm:"not null;size:200" json:"name"`
	Order       int    `gorm:"not null;column:stage_order" json:"order"`

	Steps []BossFightStep `gorm:"foreignKey:StageID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

type BossFightStep struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	StageID        uint   `gorm:"not null;index" json:"stage_id"`
	Description    string `gorm:"not null;type:text" json:"description"`
	ExpectedAnswer string `gorm:"not null;size:500" json:"-"`

	Stage *BossFightStage `gorm:"foreignKey:StageID" json:"-"`
}

// TeamBossProgress marks a (team, step) as done. First correct submitter
// claims the step for the whole team; the unique index makes the claim
// race-safe.
type TeamBossProgress struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TeamID            uint      `gorm:"not null;uniqueIndex:idx_team_step" json:"team_id"`
	StepID            uint      `gorm:"not null;uniqueIndex:idx_team_step" json:"step_id"`
	CompletedByUserID uint      `gorm:"not null" json:"completed_by_user_id"`
	CompletedAt       time.Time `json:"completed_at"`

	Team *Team          `gorm:"foreignKey:TeamID" json:"-"`
	Step *BossFightStep `gorm:"foreignKey:StepID" json:"step,omitempty"`
	User *User          `gorm:"foreignKey:CompletedByUserID" json:"user,omitempty"`
}

// TeamBossCompletion is the one-time "boss defeated" guard row per team.
// Reward distribution happens exactly once, on whichever request wins the
// insert; losers of the race see a duplicate-key conflict and skip it.
type TeamBossCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeamID      uint      `gorm:"not null;uniqueIndex:idx_team_boss" json:"team_id"`
	BossFightID uint      `gorm:"not null;uniqueIndex:idx_team_boss" json:"boss_fight_id"`
	CompletedAt time.Time `json:"completed_at"`

	Team      *Team      `gorm:"foreignKey:TeamID" json:"-"`
	BossFight *BossFight `gorm:"foreignKey:BossFightID" json:"boss_fight,omitempty"`
}

func (BossFight) TableName() string {
	return "boss_fights"
}

func (BossFightStage) TableName() string {
	return "boss_fight_stages"
}

func (BossFightStep) TableName() string {
	return "boss_fight_steps"
}

func (TeamBossProgress) TableName() string {
	return "team_boss_progress"
}

func (TeamBossCompletion) TableName() string {
	return "team_boss_completions"
}
