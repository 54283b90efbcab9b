// models/event.go - Global events (world boss) and scavenger hunts
package models

import "time"

// GlobalEvent is a shared damage pool. CurrentHP only decreases and is
// floored at zero; defeat is derived (CurrentHP == 0), never persisted
// as a status flip.
type GlobalEvent struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Description       string    `gorm:"not null;type:text" json:"description"`
	TotalHP           int64     `gorm:"not null" json:"total_hp"`
	CurrentHP         int64     `gorm:"not null" json:"current_hp"`
	StartDate         time.Time `gorm:"not null" json:"start_date"`
	EndDate           time.Time `gorm:"not null" json:"end_date"`
	IsActive          bool      `gorm:"default:false;index" json:"is_active"`
	RewardPointsOnWin int       `gorm:"default:200" json:"reward_points_on_win"`
	CreatedAt         time.Time `json:"created_at"`
}

// GlobalEventContribution is the per-user damage ledger, unique per
// (event, user) and incremented in place on each qualifying action.
type GlobalEventContribution struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	EventID            uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`
	ContributionPoints int       `gorm:"not null" json:"contribution_points"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Event *GlobalEvent `gorm:"foreignKey:EventID" json:"-"`
	User  *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Scavenger hunt step target types.
const (
	HuntTargetFAQ       = "FAQ"
	HuntTargetChallenge = "CHALLENGE"
)

type ScavengerHunt struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Description  string    `gorm:"not null;type:text" json:"description"`
	IsActive     bool      `gorm:"default:false;index" json:"is_active"`
	RewardPoints int       `gorm:"default:100" json:"reward_points"`
	CreatedAt    time.Time `json:"created_at"`

	Steps []ScavengerHuntStep `gorm:"foreignKey:HuntID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

type ScavengerHuntStep struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	HuntID           uint   `gorm:"not null;index" json:"hunt_id"`
	StepNumber       int    `gorm:"not null" json:"step_number"`
	ClueText         string `gorm:"not null;type:text" json:"clue_text"`
	TargetType       string `gorm:"not null;size:50" json:"target_type"`
	TargetIdentifier string `gorm:"not null;size:200" json:"-"`
	HiddenClue       string `gorm:"not null;type:text" json:"-"`
}

type UserHuntProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_hunt" json:"user_id"`
	HuntID      uint       `gorm:"not null;uniqueIndex:idx_user_hunt" json:"hunt_id"`
	CurrentStep int        `gorm:"default:1;not null" json:"current_step"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	User *User          `gorm:"foreignKey:UserID" json:"-"`
	Hunt *ScavengerHunt `gorm:"foreignKey:HuntID" json:"hunt,omitempty"`
}

func (GlobalEvent) TableName() string {
	return "global_events"
}

func (GlobalEventContribution) TableName() string {
	return "global_event_contributions"
}

func (ScavengerHunt) TableName() string {
	return "scavenger_hunts"
}

func (ScavengerHuntStep) TableName() string {
	return "scavenger_hunt_steps"
}

func (UserHuntProgress) TableName() string {
	return "user_hunt_progress"
}
