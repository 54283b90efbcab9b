// models/team.go - Teams and team battles
package models

import "time"

type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	OwnerID   uint      `gorm:"not null" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members   []User    `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Battle lifecycle states.
const (
	BattleStatusActive    = "active"
	BattleStatusCompleted = "completed"
	BattleStatusExpired   = "expired"
)

// BattleChallengeCount is how many challenges get bound to a battle at creation.
const BattleChallengeCount = 5

// BattleDuration is the window between creation and the finalize deadline.
const BattleDuration = 48 * time.Hour

type TeamBattle struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ChallengingTeamID uint      `gorm:"not null;index" json:"challenging_team_id"`
	ChallengedTeamID  uint      `gorm:"not null;index" json:"challenged_team_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `gorm:"not null;index" json:"end_time"`
	Status            string    `gorm:"size:50;default:'active';index" json:"status"`
	WinnerTeamID      *uint     `json:"winner_team_id,omitempty"`
	RewardPoints      int       `gorm:"default:150" json:"reward_points"`

	ChallengingTeam *Team `gorm:"foreignKey:ChallengingTeamID" json:"challenging_team,omitempty"`
	ChallengedTeam  *Team `gorm:"foreignKey:ChallengedTeamID" json:"challenged_team,omitempty"`
	WinnerTeam      *Team `gorm:"foreignKey:WinnerTeamID" json:"winner_team,omitempty"`

	BattleChallenges []TeamBattleChallenge `gorm:"foreignKey:BattleID;constraint:OnDelete:CASCADE" json:"battle_challenges,omitempty"`
}

// TeamBattleChallenge binds a platform challenge to a battle. The claim
// (CompletedByTeamID) transitions from nil to exactly one team and never
// changes again; claiming is a conditional update, not read-then-write.
type TeamBattleChallenge struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	BattleID          uint       `gorm:"not null;uniqueIndex:idx_battle_challenge" json:"battle_id"`
	ChallengeID       uint       `gorm:"not null;uniqueIndex:idx_battle_challenge" json:"challenge_id"`
	CompletedByTeamID *uint      `json:"completed_by_team_id,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`

	Battle    *TeamBattle `gorm:"foreignKey:BattleID" json:"-"`
	Challenge *Challenge  `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

func (TeamBattle) TableName() string {
	return "team_battles"
}

func (TeamBattleChallenge) TableName() string {
	return "team_battle_challenges"
}
