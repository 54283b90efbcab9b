// services/battle_service.go - Team battle lifecycle
package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"oraculo/logger"
	"oraculo/models"

	"gorm.io/gorm"
)

type BattleService struct {
	db  *gorm.DB
	gam *GamificationService
}

func NewBattleService(db *gorm.DB, gam *GamificationService) *BattleService {
	return &BattleService{db: db, gam: gam}
}

// FinalizedBattle reports one battle closed by the finalize sweep.
type FinalizedBattle struct {
	Battle          models.TeamBattle
	WinnerTeam      *models.Team
	ChallengerScore int
	ChallengedScore int
}

// StartBattle creates a battle between the actor's team and the
// challenged team, binding a uniform random sample of eligible
// challenges. Only the team owner may start one, a team cannot fight
// itself, and at most one active battle may exist between the unordered
// pair.
func (s *BattleService) StartBattle(actor *models.User, challengedTeamID uint) (*models.TeamBattle, error) {
	if actor.TeamID == nil {
		return nil, ErrNoTeam
	}

	var challenger models.Team
	if err := s.db.First(&challenger, *actor.TeamID).Error; err != nil {
		return nil, fmt.Errorf("load challenger team: %w", err)
	}
	if challenger.OwnerID != actor.ID {
		return nil, ErrNotTeamOwner
	}
	if challenger.ID == challengedTeamID {
		return nil, ErrSelfBattle
	}

	var challenged models.Team
	if err := s.db.First(&challenged, challengedTeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Unordered pair check, both directions
	var activeCount int64
	if err := s.db.Model(&models.TeamBattle{}).
		Where("status = ?", models.BattleStatusActive).
		Where("(challenging_team_id = ? AND challenged_team_id = ?) OR (challenging_team_id = ? AND challenged_team_id = ?)",
			challenger.ID, challenged.ID, challenged.ID, challenger.ID).
		Count(&activeCount).Error; err != nil {
		return nil, err
	}
	if activeCount > 0 {
		return nil, ErrBattleExists
	}

	var eligible []models.Challenge
	if err := s.db.Where("is_team_challenge = ?", false).Find(&eligible).Error; err != nil {
		return nil, err
	}
	if len(eligible) < models.BattleChallengeCount {
		return nil, ErrNotEnoughChallenges
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	selected := eligible[:models.BattleChallengeCount]

	now := time.Now().UTC()
	battle := models.TeamBattle{
		ChallengingTeamID: challenger.ID,
		ChallengedTeamID:  challenged.ID,
		StartTime:         now,
		EndTime:           now.Add(models.BattleDuration),
		Status:            models.BattleStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&battle).Error; err != nil {
			return err
		}
		for _, challenge := range selected {
			bound := models.TeamBattleChallenge{
				BattleID:    battle.ID,
				ChallengeID: challenge.ID,
			}
			if err := tx.Create(&bound).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithUser(actor.ID).WithFields(map[string]interface{}{
		"battle_id":  battle.ID,
		"challenger": challenger.ID,
		"challenged": challenged.ID,
	}).Info("team battle started")

	return &battle, nil
}

// ClaimForTeam claims, for every active battle the team participates in,
// the bound challenge matching challengeID if still unclaimed. The claim
// is a conditional update on the null column, so the first writer wins
// and the claim never changes afterwards. Returns ids of battles where a
// claim landed.
func (s *BattleService) ClaimForTeam(tx *gorm.DB, teamID, challengeID uint) ([]uint, error) {
	var battles []models.TeamBattle
	if err := tx.Where("status = ?", models.BattleStatusActive).
		Where("challenging_team_id = ? OR challenged_team_id = ?", teamID, teamID).
		Find(&battles).Error; err != nil {
		return nil, err
	}

	var claimed []uint
	now := time.Now().UTC()
	for _, battle := range battles {
		res := tx.Model(&models.TeamBattleChallenge{}).
			Where("battle_id = ? AND challenge_id = ? AND completed_by_team_id IS NULL",
				battle.ID, challengeID).
			Updates(map[string]interface{}{
				"completed_by_team_id": teamID,
				"completed_at":         now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			claimed = append(claimed, battle.ID)
		}
	}
	return claimed, nil
}

// FinalizeEndedBattles closes every active battle past its deadline.
// Strictly greater claim count wins; a tie completes the battle with no
// winner and no rewards. Winning team members are credited and
// re-leveled. Invoked on demand (admin), not by a background timer.
func (s *BattleService) FinalizeEndedBattles() ([]FinalizedBattle, error) {
	var ended []models.TeamBattle
	if err := s.db.Where("status = ? AND end_time <= ?",
		models.BattleStatusActive, time.Now().UTC()).
		Find(&ended).Error; err != nil {
		return nil, err
	}

	var finalized []FinalizedBattle
	for _, battle := range ended {
		result := FinalizedBattle{Battle: battle}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			challengerScore, err := s.claimCount(tx, battle.ID, battle.ChallengingTeamID)
			if err != nil {
				return err
			}
			challengedScore, err := s.claimCount(tx, battle.ID, battle.ChallengedTeamID)
			if err != nil {
				return err
			}
			result.ChallengerScore = challengerScore
			result.ChallengedScore = challengedScore

			var winnerID *uint
			if challengerScore > challengedScore {
				winnerID = &battle.ChallengingTeamID
			} else if challengedScore > challengerScore {
				winnerID = &battle.ChallengedTeamID
			}

			if winnerID != nil {
				var winner models.Team
				if err := tx.Preload("Members").First(&winner, *winnerID).Error; err != nil {
					return err
				}
				for i := range winner.Members {
					member := &winner.Members[i]
					member.Points += battle.RewardPoints
					if err := tx.Model(&models.User{}).Where("id = ?", member.ID).
						Update("points", member.Points).Error; err != nil {
						return err
					}
					if _, _, err := s.gam.UpdateUserLevel(tx, member); err != nil {
						return err
					}
				}
				result.WinnerTeam = &winner
			}

			updates := map[string]interface{}{"status": models.BattleStatusCompleted}
			if winnerID != nil {
				updates["winner_team_id"] = *winnerID
			}
			// Guard on status so a concurrent sweep cannot pay twice
			res := tx.Model(&models.TeamBattle{}).
				Where("id = ? AND status = ?", battle.ID, models.BattleStatusActive).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyCompleted
			}
			return nil
		})
		if errors.Is(err, ErrAlreadyCompleted) {
			continue
		}
		if err != nil {
			return finalized, err
		}
		finalized = append(finalized, result)
	}

	if len(finalized) > 0 {
		logger.Get().WithField("count", len(finalized)).Info("battles finalized")
	}
	return finalized, nil
}

func (s *BattleService) claimCount(tx *gorm.DB, battleID, teamID uint) (int, error) {
	var count int64
	err := tx.Model(&models.TeamBattleChallenge{}).
		Where("battle_id = ? AND completed_by_team_id = ?", battleID, teamID).
		Count(&count).Error
	return int(count), err
}

// ActiveBattlesForTeam lists active battles the team participates in.
func (s *BattleService) ActiveBattlesForTeam(teamID uint) ([]models.TeamBattle, error) {
	var battles []models.TeamBattle
	err := s.db.Preload("ChallengingTeam").Preload("ChallengedTeam").
		Preload("BattleChallenges.Challenge").
		Where("status = ?", models.BattleStatusActive).
		Where("challenging_team_id = ? OR challenged_team_id = ?", teamID, teamID).
		Find(&battles).Error
	return battles, err
}

// GetBattle loads one battle with its bound challenges.
func (s *BattleService) GetBattle(battleID uint) (*models.TeamBattle, error) {
	var battle models.TeamBattle
	err := s.db.Preload("ChallengingTeam").Preload("ChallengedTeam").
		Preload("WinnerTeam").Preload("BattleChallenges.Challenge").
		First(&battle, battleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &battle, nil
}
