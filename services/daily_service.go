// services/daily_service.go - Daily bonus challenge selection
package services

import (
	"errors"
	"math/rand"
	"time"

	"oraculo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyService struct {
	db *gorm.DB
}

func NewDailyService(db *gorm.DB) *DailyService {
	return &DailyService{db: db}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// today truncates to a UTC calendar day, the uniqueness domain of the
// daily_challenges table.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// GetOrCreateDaily returns today's bonus challenge, selecting one at
// random when none exists yet. Challenges featured in the prior 30 days
// are excluded unless that empties the pool. Nil when the platform has
// no challenges at all.
func (s *DailyService) GetOrCreateDaily() (*models.DailyChallenge, error) {
	day := today()

	var existing models.DailyChallenge
	err := s.db.Preload("Challenge").Where("day = ?", day).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cutoff := day.AddDate(0, 0, -30)
	var recentIDs []uint
	if err := s.db.Model(&models.DailyChallenge{}).
		Where("day > ?", cutoff).
		Pluck("challenge_id", &recentIDs).Error; err != nil {
		return nil, err
	}

	query := s.db.Model(&models.Challenge{})
	if len(recentIDs) > 0 {
		query = query.Where("id NOT IN ?", recentIDs)
	}
	var candidateIDs []uint
	if err := query.Pluck("id", &candidateIDs).Error; err != nil {
		return nil, err
	}
	if len(candidateIDs) == 0 {
		// Pool exhausted by the exclusion window, fall back to everything
		if err := s.db.Model(&models.Challenge{}).Pluck("id", &candidateIDs).Error; err != nil {
			return nil, err
		}
	}
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	daily := models.DailyChallenge{
		Day:         day,
		ChallengeID: candidateIDs[rand.Intn(len(candidateIDs))],
	}
	// Concurrent requests race on the unique day; loser refetches
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&daily)
	if res.Error != nil {
		return nil, res.Error
	}

	var fresh models.DailyChallenge
	if err := s.db.Preload("Challenge").Where("day = ?", day).First(&fresh).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}

// DailyFor returns the daily entry bound to the given day, if any.
func (s *DailyService) DailyFor(tx *gorm.DB, day time.Time) (*models.DailyChallenge, error) {
	var daily models.DailyChallenge
	err := tx.Where("day = ?", day).First(&daily).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &daily, nil
}

// History lists past daily selections, newest first.
func (s *DailyService) History(limit int) ([]models.DailyChallenge, error) {
	var rows []models.DailyChallenge
	err := s.db.Preload("Challenge").Order("day DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
