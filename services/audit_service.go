// services/audit_service.go - Explicit audit trail
package services

import (
	"oraculo/logger"
	"oraculo/models"

	"gorm.io/gorm"
)

// AuditService writes the audit trail. Operations call Record explicitly
// when they finish; auditing is never woven in by wrappers, and a failed
// audit write never fails the operation it describes.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditEntry describes one recorded operation.
type AuditEntry struct {
	Actor      *models.User
	Action     string
	EntityType string
	EntityID   *uint
	Details    string
	IPAddress  string
}

func (s *AuditService) Record(entry AuditEntry) {
	row := models.AuditLog{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
	}
	if entry.Actor != nil {
		row.UserID = &entry.Actor.ID
		row.UserName = entry.Actor.Name
	}
	if err := s.db.Create(&row).Error; err != nil {
		logger.Get().WithError(err).WithField("action", entry.Action).
			Warn("failed to write audit log")
	}
}

// List returns audit rows, newest first, optionally filtered by action.
func (s *AuditService) List(action string, limit, offset int) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AuditLog
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}
