// services/submission_service.go - Challenge submission orchestration
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"oraculo/logger"
	"oraculo/models"

	"gorm.io/gorm"
)

// SubmissionOutcome classifies a challenge submission.
type SubmissionOutcome string

const (
	OutcomeIncorrect        SubmissionOutcome = "incorrect"
	OutcomeAlreadyCompleted SubmissionOutcome = "already_completed"
	OutcomeAccepted         SubmissionOutcome = "accepted"
)

// SubmissionResult carries everything a correct submission set in motion.
type SubmissionResult struct {
	Outcome        SubmissionOutcome     `json:"outcome"`
	Challenge      *models.Challenge     `json:"challenge,omitempty"`
	PointsAwarded  int                   `json:"points_awarded"`
	DailyBonus     int                   `json:"daily_bonus"`
	TotalPoints    int                   `json:"total_points"`
	LeveledUp      bool                  `json:"leveled_up"`
	NewLevel       *models.Level         `json:"new_level,omitempty"`
	EventDamage    int                   `json:"event_damage"`
	EventDefeated  bool                  `json:"event_defeated"`
	EventName      string                `json:"event_name,omitempty"`
	BattleClaims   []uint                `json:"battle_claims,omitempty"`
	CompletedPaths []models.LearningPath `json:"completed_paths,omitempty"`
	Achievements   []models.Achievement  `json:"achievements,omitempty"`
}

// errDuplicateSubmission aborts the transaction when the unique
// (user, challenge) index fires under a race; the whole credit rolls
// back and the caller reports AlreadyCompleted.
var errDuplicateSubmission = errors.New("duplicate submission")

// SubmissionService sequences a correct submission: points credit, daily
// bonus, completion record, event damage, battle claims, path completion,
// level resolution — one transaction — then achievement evaluation in a
// second transaction so predicates see the committed totals (a path bonus
// can be the points that unlock an achievement).
type SubmissionService struct {
	db        *gorm.DB
	gam       *GamificationService
	events    *EventService
	battles   *BattleService
	daily     *DailyService
	validator AnswerValidator
	notifier  *NotificationService
	board     *LeaderboardService
}

func NewSubmissionService(
	db *gorm.DB,
	gam *GamificationService,
	events *EventService,
	battles *BattleService,
	daily *DailyService,
	validator AnswerValidator,
	notifier *NotificationService,
	board *LeaderboardService,
) *SubmissionService {
	return &SubmissionService{
		db: db, gam: gam, events: events, battles: battles,
		daily: daily, validator: validator, notifier: notifier, board: board,
	}
}

// Submit processes one answer for one challenge.
func (s *SubmissionService) Submit(ctx context.Context, user *models.User, challengeID uint, answer string) (*SubmissionResult, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}

	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := &SubmissionResult{Challenge: &challenge}

	correct, err := s.validator.Validate(ctx, &challenge, answer)
	if err != nil {
		return nil, fmt.Errorf("validate answer: %w", err)
	}
	if !correct {
		result.Outcome = OutcomeIncorrect
		return result, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Idempotence guard: one completion per (user, challenge)
		var existing int64
		if err := tx.Model(&models.UserChallenge{}).
			Where("user_id = ? AND challenge_id = ?", user.ID, challenge.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errDuplicateSubmission
		}

		// Points credit, plus the daily bonus when today features this challenge
		result.PointsAwarded = challenge.PointsReward
		if daily, err := s.daily.DailyFor(tx, today()); err != nil {
			return err
		} else if daily != nil && daily.ChallengeID == challenge.ID {
			result.DailyBonus = daily.BonusPoints
		}

		user.Points += result.PointsAwarded + result.DailyBonus
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", user.Points).Error; err != nil {
			return err
		}

		// Durable completion record before any dependent check
		completion := models.UserChallenge{
			UserID:      user.ID,
			ChallengeID: challenge.ID,
			CompletedAt: nowUTC(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateSubmission
			}
			return err
		}

		// World boss damage equals the challenge's base reward
		event, err := s.events.ActiveEvent(tx)
		if err != nil {
			return err
		}
		if event != nil {
			defeated, err := s.events.ApplyDamage(tx, event, user.ID, challenge.PointsReward)
			if err != nil {
				return err
			}
			result.EventDamage = challenge.PointsReward
			result.EventDefeated = defeated
			result.EventName = event.Name
		}

		// Battle claims for every active battle the user's team is in
		if user.TeamID != nil {
			claims, err := s.battles.ClaimForTeam(tx, *user.TeamID, challenge.ID)
			if err != nil {
				return err
			}
			result.BattleClaims = claims
		}

		// Path completion may credit further points and grant achievements
		paths, grants, err := s.gam.CheckPaths(tx, user, challenge.ID)
		if err != nil {
			return err
		}
		result.CompletedPaths = paths
		result.Achievements = grants

		// Level reflects every credit in this transaction
		leveledUp, level, err := s.gam.UpdateUserLevel(tx, user)
		if err != nil {
			return err
		}
		result.LeveledUp = leveledUp
		result.NewLevel = level
		result.TotalPoints = user.Points
		return nil
	})
	if errors.Is(err, errDuplicateSubmission) {
		// Reload so the caller never sees the rolled-back credit
		s.db.First(user, user.ID)
		result.Outcome = OutcomeAlreadyCompleted
		result.PointsAwarded = 0
		result.DailyBonus = 0
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	// Phase two: evaluate achievements against the committed state
	err = s.db.Transaction(func(tx *gorm.DB) error {
		grants, err := s.gam.EvaluateAchievements(tx, user)
		if err != nil {
			return err
		}
		result.Achievements = mergeAchievements(result.Achievements, grants)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Outcome = OutcomeAccepted
	s.announce(user, result)

	logger.WithUser(user.ID).WithFields(map[string]interface{}{
		"challenge_id": challenge.ID,
		"points":       result.PointsAwarded + result.DailyBonus,
		"leveled_up":   result.LeveledUp,
	}).Info("challenge completed")

	return result, nil
}

// PurchaseHint debits the hint cost and returns a hint for the
// challenge. The debit re-resolves the level, which may move it down.
func (s *SubmissionService) PurchaseHint(ctx context.Context, user *models.User, challengeID uint, hints HintGenerator, attempts int) (string, int, error) {
	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, ErrNotFound
		}
		return "", 0, err
	}

	hint, err := hints.GenerateHint(ctx, &challenge, attempts)
	if err != nil {
		return "", 0, err
	}

	if user.Points < challenge.HintCost {
		return "", 0, ErrInsufficientFunds
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user.Points -= challenge.HintCost
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", user.Points).Error; err != nil {
			return err
		}
		_, _, err := s.gam.UpdateUserLevel(tx, user)
		return err
	})
	if err != nil {
		return "", 0, err
	}

	return hint, challenge.HintCost, nil
}

// announce pushes the semantic events for an accepted submission.
// Delivery is fire-and-forget; the submission already committed.
func (s *SubmissionService) announce(user *models.User, result *SubmissionResult) {
	if s.board != nil {
		s.board.UpdateScore(user)
	}
	if s.notifier == nil {
		return
	}

	if result.LeveledUp && result.NewLevel != nil {
		s.notifier.NotifyUser(user.ID, "success", models.NotifCategoryLevel,
			fmt.Sprintf("Subiu de nível! Você agora é %s!", result.NewLevel.Name),
			map[string]interface{}{"level": result.NewLevel.Name, "min_points": result.NewLevel.MinPoints})
	}
	for _, path := range result.CompletedPaths {
		s.notifier.NotifyUser(user.ID, "success", models.NotifCategoryPath,
			fmt.Sprintf("Trilha %q concluída! Você ganhou %d pontos de bônus!", path.Name, path.RewardPoints),
			map[string]interface{}{"path_id": path.ID})
	}
	for _, achievement := range result.Achievements {
		s.notifier.NotifyUser(user.ID, "success", models.NotifCategoryAchievement,
			fmt.Sprintf("Nova conquista desbloqueada: %s!", achievement.Name),
			map[string]interface{}{"achievement_id": achievement.ID})
	}
	if result.EventDamage > 0 {
		s.notifier.NotifyUser(user.ID, "info", models.NotifCategoryEvent,
			fmt.Sprintf("Você causou %d de dano ao Boss Global!", result.EventDamage),
			map[string]interface{}{"damage": result.EventDamage})
	}
	if result.EventDefeated {
		s.notifier.NotifyAll("success", models.NotifCategoryEvent,
			fmt.Sprintf("O Boss Global %q foi derrotado!", result.EventName), nil)
	}
}

func mergeAchievements(a, b []models.Achievement) []models.Achievement {
	seen := make(map[uint]bool, len(a))
	merged := append([]models.Achievement{}, a...)
	for _, x := range a {
		seen[x.ID] = true
	}
	for _, x := range b {
		if !seen[x.ID] {
			merged = append(merged, x)
			seen[x.ID] = true
		}
	}
	return merged
}
