// services/boss_service.go - Boss fight progress tracking
package services

import (
	"errors"
	"strings"
	"time"

	"oraculo/logger"
	"oraculo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StepResult is the outcome of a boss step submission.
type StepResult string

const (
	StepIncorrect            StepResult = "incorrect"
	StepAlreadyCompleted     StepResult = "already_completed"
	StepAcceptedOnly         StepResult = "accepted"
	StepAcceptedBossCleared  StepResult = "accepted_boss_cleared"
)

// StepSubmission is what SubmitStep reports back to the handler.
type StepSubmission struct {
	Result       StepResult
	Boss         *models.BossFight
	Step         *models.BossFightStep
	Team         *models.Team
	RewardPoints int
}

type BossService struct {
	db  *gorm.DB
	gam *GamificationService
}

func NewBossService(db *gorm.DB, gam *GamificationService) *BossService {
	return &BossService{db: db, gam: gam}
}

// SubmitStep records a team member's answer to a boss step. Answers
// compare case-insensitively. The (team, step) progress row and the
// (team, boss) completion row are both inserted with conflict-as-success
// semantics: whichever request wins the completion insert distributes the
// rewards, everyone else converges to the idempotent outcome.
func (s *BossService) SubmitStep(user *models.User, stepID uint, answer string) (*StepSubmission, error) {
	if user.TeamID == nil {
		return nil, ErrNoTeam
	}

	var step models.BossFightStep
	if err := s.db.First(&step, stepID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var stage models.BossFightStage
	if err := s.db.First(&stage, step.StageID).Error; err != nil {
		return nil, err
	}
	var boss models.BossFight
	if err := s.db.First(&boss, stage.BossFightID).Error; err != nil {
		return nil, err
	}

	submission := &StepSubmission{Boss: &boss, Step: &step, RewardPoints: boss.RewardPoints}

	if !strings.EqualFold(strings.TrimSpace(answer), step.ExpectedAnswer) {
		submission.Result = StepIncorrect
		return submission, nil
	}

	teamID := *user.TeamID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		progress := models.TeamBossProgress{
			TeamID:            teamID,
			StepID:            step.ID,
			CompletedByUserID: user.ID,
			CompletedAt:       time.Now().UTC(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			submission.Result = StepAlreadyCompleted
			return nil
		}

		cleared, err := s.checkClearance(tx, teamID, &boss)
		if err != nil {
			return err
		}
		if cleared {
			submission.Result = StepAcceptedBossCleared
		} else {
			submission.Result = StepAcceptedOnly
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if submission.Result == StepAcceptedBossCleared {
		var team models.Team
		if err := s.db.Preload("Members").First(&team, teamID).Error; err == nil {
			submission.Team = &team
		}
		logger.WithUser(user.ID).WithField("boss_id", boss.ID).Info("boss cleared")
	}

	return submission, nil
}

// checkClearance counts the team's completed steps against the boss's
// full step set and, on full clearance, inserts the TeamBossCompletion
// guard and credits every member. The guard insert is the serialization
// point: RowsAffected 0 means another submission already paid out.
func (s *BossService) checkClearance(tx *gorm.DB, teamID uint, boss *models.BossFight) (bool, error) {
	var totalSteps int64
	if err := tx.Model(&models.BossFightStep{}).
		Joins("JOIN boss_fight_stages ON boss_fight_stages.id = boss_fight_steps.stage_id").
		Where("boss_fight_stages.boss_fight_id = ?", boss.ID).
		Count(&totalSteps).Error; err != nil {
		return false, err
	}
	if totalSteps == 0 {
		return false, nil
	}

	var completedSteps int64
	if err := tx.Model(&models.TeamBossProgress{}).
		Joins("JOIN boss_fight_steps ON boss_fight_steps.id = team_boss_progress.step_id").
		Joins("JOIN boss_fight_stages ON boss_fight_stages.id = boss_fight_steps.stage_id").
		Where("team_boss_progress.team_id = ? AND boss_fight_stages.boss_fight_id = ?", teamID, boss.ID).
		Count(&completedSteps).Error; err != nil {
		return false, err
	}
	if completedSteps < totalSteps {
		return false, nil
	}

	completion := models.TeamBossCompletion{
		TeamID:      teamID,
		BossFightID: boss.ID,
		CompletedAt: time.Now().UTC(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Someone else already cleared it; no second payout
		return false, nil
	}

	var members []models.User
	if err := tx.Where("team_id = ?", teamID).Find(&members).Error; err != nil {
		return false, err
	}
	for i := range members {
		member := &members[i]
		member.Points += boss.RewardPoints
		if err := tx.Model(&models.User{}).Where("id = ?", member.ID).
			Update("points", member.Points).Error; err != nil {
			return false, err
		}
		if _, _, err := s.gam.UpdateUserLevel(tx, member); err != nil {
			return false, err
		}
	}

	return true, nil
}

// TeamProgress returns the step ids the team has completed for a boss.
func (s *BossService) TeamProgress(teamID, bossID uint) ([]models.TeamBossProgress, error) {
	var rows []models.TeamBossProgress
	err := s.db.Preload("User").
		Joins("JOIN boss_fight_steps ON boss_fight_steps.id = team_boss_progress.step_id").
		Joins("JOIN boss_fight_stages ON boss_fight_stages.id = boss_fight_steps.stage_id").
		Where("team_boss_progress.team_id = ? AND boss_fight_stages.boss_fight_id = ?", teamID, bossID).
		Find(&rows).Error
	return rows, err
}

// ActiveBosses lists bosses open for play.
func (s *BossService) ActiveBosses() ([]models.BossFight, error) {
	var bosses []models.BossFight
	err := s.db.Preload("Stages", func(db *gorm.DB) *gorm.DB {
		return db.Order("stage_order ASC")
	}).Preload("Stages.Steps").
		Where("is_active = ?", true).
		Find(&bosses).Error
	return bosses, err
}
