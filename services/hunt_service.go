// services/hunt_service.go - Scavenger hunt progression
package services

import (
	"errors"
	"sort"
	"strings"

	"oraculo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHuntInactive  = errors.New("hunt is not active")
	ErrHuntFinished  = errors.New("hunt already completed")
	ErrHuntNotJoined = errors.New("hunt not started")
)

type HuntService struct {
	db  *gorm.DB
	gam *GamificationService
}

func NewHuntService(db *gorm.DB, gam *GamificationService) *HuntService {
	return &HuntService{db: db, gam: gam}
}

// HuntStepView is the player-facing slice of a step: the clue, never
// the target or the hidden clue of steps not yet reached.
type HuntStepView struct {
	StepNumber int    `json:"step_number"`
	ClueText   string `json:"clue_text"`
	TargetType string `json:"target_type"`
}

// HuntStatus is a user's position in one hunt.
type HuntStatus struct {
	Hunt        *models.ScavengerHunt `json:"hunt"`
	CurrentStep int                   `json:"current_step"`
	TotalSteps  int                   `json:"total_steps"`
	Completed   bool                  `json:"completed"`
	Clue        *HuntStepView         `json:"clue,omitempty"`
}

// HuntSubmitResult reports one answered clue.
type HuntSubmitResult struct {
	Correct       bool                 `json:"correct"`
	HiddenClue    string               `json:"hidden_clue,omitempty"`
	NextStep      *HuntStepView        `json:"next_step,omitempty"`
	HuntCompleted bool                 `json:"hunt_completed"`
	PointsAwarded int                  `json:"points_awarded"`
	LeveledUp     bool                 `json:"leveled_up"`
	Achievements  []models.Achievement `json:"achievements,omitempty"`
}

// ActiveHunts lists hunts open to players, with their step clues hidden.
func (s *HuntService) ActiveHunts() ([]models.ScavengerHunt, error) {
	var hunts []models.ScavengerHunt
	err := s.db.Where("is_active = ?", true).Order("created_at DESC").Find(&hunts).Error
	return hunts, err
}

func (s *HuntService) loadHunt(huntID uint) (*models.ScavengerHunt, error) {
	var hunt models.ScavengerHunt
	err := s.db.Preload("Steps").First(&hunt, huntID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(hunt.Steps, func(i, j int) bool {
		return hunt.Steps[i].StepNumber < hunt.Steps[j].StepNumber
	})
	return &hunt, nil
}

func stepView(step *models.ScavengerHuntStep) *HuntStepView {
	return &HuntStepView{
		StepNumber: step.StepNumber,
		ClueText:   step.ClueText,
		TargetType: step.TargetType,
	}
}

func stepByNumber(hunt *models.ScavengerHunt, number int) *models.ScavengerHuntStep {
	for i := range hunt.Steps {
		if hunt.Steps[i].StepNumber == number {
			return &hunt.Steps[i]
		}
	}
	return nil
}

// StartHunt enrolls the user at step one. Starting twice is a no-op
// that returns the existing position.
func (s *HuntService) StartHunt(user *models.User, huntID uint) (*HuntStatus, error) {
	hunt, err := s.loadHunt(huntID)
	if err != nil {
		return nil, err
	}
	if !hunt.IsActive {
		return nil, ErrHuntInactive
	}
	if len(hunt.Steps) == 0 {
		return nil, ErrNotFound
	}

	progress := models.UserHuntProgress{UserID: user.ID, HuntID: hunt.ID, CurrentStep: 1}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ? AND hunt_id = ?", user.ID, hunt.ID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return s.status(hunt, &progress), nil
}

// Status reports the user's position in a hunt.
func (s *HuntService) Status(user *models.User, huntID uint) (*HuntStatus, error) {
	hunt, err := s.loadHunt(huntID)
	if err != nil {
		return nil, err
	}
	var progress models.UserHuntProgress
	err = s.db.Where("user_id = ? AND hunt_id = ?", user.ID, hunt.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHuntNotJoined
	}
	if err != nil {
		return nil, err
	}
	return s.status(hunt, &progress), nil
}

func (s *HuntService) status(hunt *models.ScavengerHunt, progress *models.UserHuntProgress) *HuntStatus {
	status := &HuntStatus{
		Hunt:        hunt,
		CurrentStep: progress.CurrentStep,
		TotalSteps:  len(hunt.Steps),
		Completed:   progress.CompletedAt != nil,
	}
	if !status.Completed {
		if step := stepByNumber(hunt, progress.CurrentStep); step != nil {
			status.Clue = stepView(step)
		}
	}
	return status
}

// SubmitAnswer checks the user's guess against the current step's
// target. A correct final step pays the hunt reward and re-resolves the
// user's level.
func (s *HuntService) SubmitAnswer(user *models.User, huntID uint, answer string) (*HuntSubmitResult, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}

	hunt, err := s.loadHunt(huntID)
	if err != nil {
		return nil, err
	}
	if !hunt.IsActive {
		return nil, ErrHuntInactive
	}

	var progress models.UserHuntProgress
	err = s.db.Where("user_id = ? AND hunt_id = ?", user.ID, hunt.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHuntNotJoined
	}
	if err != nil {
		return nil, err
	}
	if progress.CompletedAt != nil {
		return nil, ErrHuntFinished
	}

	step := stepByNumber(hunt, progress.CurrentStep)
	if step == nil {
		return nil, ErrNotFound
	}

	result := &HuntSubmitResult{}
	if !strings.EqualFold(strings.TrimSpace(answer), step.TargetIdentifier) {
		return result, nil
	}
	result.Correct = true
	result.HiddenClue = step.HiddenClue

	isLast := progress.CurrentStep >= len(hunt.Steps)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if !isLast {
			// Advance only from the step we just verified, a concurrent
			// submit of the same step must not double-advance
			res := tx.Model(&models.UserHuntProgress{}).
				Where("id = ? AND current_step = ?", progress.ID, progress.CurrentStep).
				Update("current_step", progress.CurrentStep+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyCompleted
			}
			return nil
		}

		res := tx.Model(&models.UserHuntProgress{}).
			Where("id = ? AND completed_at IS NULL", progress.ID).
			Updates(map[string]interface{}{
				"completed_at": nowUTC(),
				"current_step": progress.CurrentStep,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}

		user.Points += hunt.RewardPoints
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", user.Points).Error; err != nil {
			return err
		}
		result.PointsAwarded = hunt.RewardPoints
		result.HuntCompleted = true

		leveledUp, _, err := s.gam.UpdateUserLevel(tx, user)
		if err != nil {
			return err
		}
		result.LeveledUp = leveledUp

		grants, err := s.gam.EvaluateAchievements(tx, user)
		if err != nil {
			return err
		}
		result.Achievements = grants
		return nil
	})
	if errors.Is(err, ErrAlreadyCompleted) {
		return nil, ErrAlreadyCompleted
	}
	if err != nil {
		return nil, err
	}

	if !isLast {
		if next := stepByNumber(hunt, progress.CurrentStep+1); next != nil {
			result.NextStep = stepView(next)
		}
	}
	return result, nil
}
