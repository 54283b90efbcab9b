// services/gamification_service.go - Level resolution, achievements, path completion
package services

import (
	"errors"
	"time"

	"oraculo/models"

	"gorm.io/gorm"
)

// GamificationService owns the pure progression rules: mapping points to
// level tiers, granting achievements, and detecting path completion. All
// methods take the caller's transaction handle so they compose into a
// single commit.
type GamificationService struct {
	db *gorm.DB
}

func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{db: db}
}

// ResolveLevel returns the tier with the greatest MinPoints not exceeding
// points. A configuration without a zero-point tier can leave low-point
// users unmatched; that is ErrNoLevelConfigured.
func (s *GamificationService) ResolveLevel(tx *gorm.DB, points int) (*models.Level, error) {
	var level models.Level
	err := tx.Where("min_points <= ?", points).
		Order("min_points DESC").
		First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoLevelConfigured
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// UpdateUserLevel re-resolves the user's tier from their current points
// and persists the new reference when it changed. Movement is
// bidirectional: point debits (hint purchases) can lower the tier.
// Returns the new level and whether it went up.
func (s *GamificationService) UpdateUserLevel(tx *gorm.DB, user *models.User) (leveledUp bool, level *models.Level, err error) {
	level, err = s.ResolveLevel(tx, user.Points)
	if err != nil {
		return false, nil, err
	}

	if user.LevelID != nil && *user.LevelID == level.ID {
		return false, level, nil
	}

	var previousMin = -1
	if user.LevelID != nil {
		var prev models.Level
		if err := tx.First(&prev, *user.LevelID).Error; err == nil {
			previousMin = prev.MinPoints
		}
	}

	user.LevelID = &level.ID
	user.Level = level
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("level_id", level.ID).Error; err != nil {
		return false, nil, err
	}

	return level.MinPoints > previousMin, level, nil
}

// userStats holds the snapshot the achievement predicates read.
type userStats struct {
	ChallengesCompleted int64
	PathsCompleted      int64
	Points              int
	HasTeam             bool
}

func (s *GamificationService) loadStats(tx *gorm.DB, user *models.User) (userStats, error) {
	var stats userStats
	if err := tx.Model(&models.UserChallenge{}).
		Where("user_id = ?", user.ID).
		Count(&stats.ChallengesCompleted).Error; err != nil {
		return stats, err
	}
	if err := tx.Model(&models.UserPathProgress{}).
		Where("user_id = ?", user.ID).
		Count(&stats.PathsCompleted).Error; err != nil {
		return stats, err
	}
	stats.Points = user.Points
	stats.HasTeam = user.TeamID != nil
	return stats, nil
}

func triggerSatisfied(a models.Achievement, stats userStats) bool {
	switch a.TriggerType {
	case models.TriggerChallengesCompleted:
		return stats.ChallengesCompleted >= int64(a.TriggerValue)
	case models.TriggerPointsEarned:
		return stats.Points >= a.TriggerValue
	case models.TriggerPathsCompleted:
		return stats.PathsCompleted >= int64(a.TriggerValue)
	case models.TriggerFirstTeamJoin:
		return stats.HasTeam && a.TriggerValue == 1
	default:
		// Unknown trigger types are never satisfiable
		return false
	}
}

// EvaluateAchievements scans every achievement the user does not hold yet
// and grants the ones whose predicate is satisfied by fresh stats.
// Re-running with unchanged stats grants nothing: already-held ids are
// excluded up front and the (user, achievement) unique index backstops
// concurrent evaluators.
func (s *GamificationService) EvaluateAchievements(tx *gorm.DB, user *models.User) ([]models.Achievement, error) {
	var heldIDs []uint
	if err := tx.Model(&models.UserAchievement{}).
		Where("user_id = ?", user.ID).
		Pluck("achievement_id", &heldIDs).Error; err != nil {
		return nil, err
	}

	query := tx.Model(&models.Achievement{})
	if len(heldIDs) > 0 {
		query = query.Where("id NOT IN ?", heldIDs)
	}
	var candidates []models.Achievement
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	stats, err := s.loadStats(tx, user)
	if err != nil {
		return nil, err
	}

	var granted []models.Achievement
	for _, achievement := range candidates {
		if !triggerSatisfied(achievement, stats) {
			continue
		}

		grant := models.UserAchievement{
			UserID:        user.ID,
			AchievementID: achievement.ID,
			EarnedAt:      time.Now().UTC(),
		}
		res := tx.Where("user_id = ? AND achievement_id = ?", user.ID, achievement.ID).
			FirstOrCreate(&grant)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				continue // another request granted it first
			}
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			granted = append(granted, achievement)
		}
	}

	return granted, nil
}

// CheckPaths tests, for every path containing the challenge the user just
// completed, whether the path's full challenge set is now a subset of the
// user's completed set. Each newly completed path credits its reward,
// writes the UserPathProgress guard row, and re-runs the achievement
// evaluator (points and path counts just changed). Must run after the
// triggering UserChallenge row is durable in this transaction.
func (s *GamificationService) CheckPaths(tx *gorm.DB, user *models.User, completedChallengeID uint) ([]models.LearningPath, []models.Achievement, error) {
	var memberships []models.PathChallenge
	if err := tx.Where("challenge_id = ?", completedChallengeID).
		Find(&memberships).Error; err != nil {
		return nil, nil, err
	}
	if len(memberships) == 0 {
		return nil, nil, nil
	}

	var completedIDs []uint
	if err := tx.Model(&models.UserChallenge{}).
		Where("user_id = ?", user.ID).
		Pluck("challenge_id", &completedIDs).Error; err != nil {
		return nil, nil, err
	}
	completedSet := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	var completedPaths []models.LearningPath
	var granted []models.Achievement

	for _, membership := range memberships {
		var path models.LearningPath
		if err := tx.First(&path, membership.PathID).Error; err != nil {
			return nil, nil, err
		}

		var existing int64
		if err := tx.Model(&models.UserPathProgress{}).
			Where("user_id = ? AND path_id = ?", user.ID, path.ID).
			Count(&existing).Error; err != nil {
			return nil, nil, err
		}
		if existing > 0 {
			continue
		}

		var pathChallengeIDs []uint
		if err := tx.Model(&models.PathChallenge{}).
			Where("path_id = ?", path.ID).
			Pluck("challenge_id", &pathChallengeIDs).Error; err != nil {
			return nil, nil, err
		}

		complete := len(pathChallengeIDs) > 0
		for _, id := range pathChallengeIDs {
			if !completedSet[id] {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		now := time.Now().UTC()
		progress := models.UserPathProgress{
			UserID:      user.ID,
			PathID:      path.ID,
			StartedAt:   now,
			CompletedAt: &now,
		}
		if err := tx.Create(&progress).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue // completed concurrently elsewhere
			}
			return nil, nil, err
		}

		user.Points += path.RewardPoints
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", user.Points).Error; err != nil {
			return nil, nil, err
		}

		newGrants, err := s.EvaluateAchievements(tx, user)
		if err != nil {
			return nil, nil, err
		}
		granted = append(granted, newGrants...)
		completedPaths = append(completedPaths, path)
	}

	return completedPaths, granted, nil
}
