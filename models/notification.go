// models/notification.go
package models

import "time"

// Notification categories emitted by the gamification engine.
const (
	NotifCategoryLevel       = "level"
	NotifCategoryAchievement = "achievement"
	NotifCategoryPath        = "path"
	NotifCategoryBoss        = "boss"
	NotifCategoryBattle      = "battle"
	NotifCategoryEvent       = "event"
	NotifCategoryGeneral     = "general"
)

// Notification is persisted before broadcast. UserID nil means global.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Type      string    `gorm:"not null;size:20" json:"type"` // success, info, warning, error
	Category  string    `gorm:"not null;size:50;index" json:"category"`
	Message   string    `gorm:"not null;type:text" json:"message"`
	Data      string    `gorm:"type:text" json:"data,omitempty"` // JSON payload
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
