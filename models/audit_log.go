// models/audit_log.go
package models

import "time"

// AuditLog records admin and engine operations. Written explicitly by the
// service layer at the end of each operation, not woven in by decorators.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	UserName   string    `gorm:"size:100" json:"user_name,omitempty"`
	Action     string    `gorm:"not null;size:100;index" json:"action"`
	EntityType string    `gorm:"size:100;index" json:"entity_type,omitempty"`
	EntityID   *uint     `json:"entity_id,omitempty"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	IPAddress  string    `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
