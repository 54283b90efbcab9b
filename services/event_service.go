// services/event_service.go - Global event (world boss) contribution ledger
package services

import (
	"errors"
	"time"

	"oraculo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// ActiveEvent returns the event currently accepting damage: flagged
// active, inside its date window, with HP remaining. Nil when none.
func (s *EventService) ActiveEvent(tx *gorm.DB) (*models.GlobalEvent, error) {
	now := time.Now().UTC()
	var event models.GlobalEvent
	err := tx.Where("is_active = ? AND start_date <= ? AND end_date >= ? AND current_hp > 0",
		true, now, now).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ApplyDamage decrements the event pool by amount, floored at zero, and
// accumulates the user's contribution ledger by the full amount (overkill
// damage still counts as contribution). The HP decrement is a single SQL
// expression so concurrent contributors cannot lose updates, and the
// ledger upsert rides the (event, user) unique index.
// Returns whether this hit brought the event to zero.
func (s *EventService) ApplyDamage(tx *gorm.DB, event *models.GlobalEvent, userID uint, amount int) (defeated bool, err error) {
	if amount <= 0 {
		return false, nil
	}

	if err := tx.Model(&models.GlobalEvent{}).
		Where("id = ?", event.ID).
		Update("current_hp", gorm.Expr(
			"CASE WHEN current_hp > ? THEN current_hp - ? ELSE 0 END", amount, amount)).Error; err != nil {
		return false, err
	}

	contribution := models.GlobalEventContribution{
		EventID:            event.ID,
		UserID:             userID,
		ContributionPoints: amount,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"contribution_points": gorm.Expr("global_event_contributions.contribution_points + ?", amount),
			"updated_at":          time.Now().UTC(),
		}),
	}).Create(&contribution).Error; err != nil {
		return false, err
	}

	// Re-read to observe the post-decrement pool
	var fresh models.GlobalEvent
	if err := tx.First(&fresh, event.ID).Error; err != nil {
		return false, err
	}
	event.CurrentHP = fresh.CurrentHP

	return fresh.CurrentHP == 0, nil
}

// Contributions lists the event's damage ledger, biggest hitters first.
func (s *EventService) Contributions(eventID uint) ([]models.GlobalEventContribution, error) {
	var rows []models.GlobalEventContribution
	err := s.db.Preload("User").
		Where("event_id = ?", eventID).
		Order("contribution_points DESC").
		Find(&rows).Error
	return rows, err
}
