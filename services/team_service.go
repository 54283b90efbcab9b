// services/team_service.go - Team membership management
package services

import (
	"errors"
	"fmt"

	"oraculo/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyInTeam = errors.New("user already belongs to a team")
	ErrTeamNameTaken = errors.New("team name already in use")
	ErrOwnerCantLeave = errors.New("owner must transfer or disband the team")
)

type TeamService struct {
	db  *gorm.DB
	gam *GamificationService
}

func NewTeamService(db *gorm.DB, gam *GamificationService) *TeamService {
	return &TeamService{db: db, gam: gam}
}

// CreateTeam creates a team owned by the user and makes them its first
// member. Joining counts for first-join achievements.
func (s *TeamService) CreateTeam(user *models.User, name string) (*models.Team, []models.Achievement, error) {
	if user.TeamID != nil {
		return nil, nil, ErrAlreadyInTeam
	}

	team := models.Team{Name: name, OwnerID: user.ID}
	var grants []models.Achievement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTeamNameTaken
			}
			return err
		}
		user.TeamID = &team.ID
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("team_id", team.ID).Error; err != nil {
			return err
		}
		var err error
		grants, err = s.gam.EvaluateAchievements(tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &team, grants, nil
}

// JoinTeam adds the user to an existing team.
func (s *TeamService) JoinTeam(user *models.User, teamID uint) (*models.Team, []models.Achievement, error) {
	if user.TeamID != nil {
		return nil, nil, ErrAlreadyInTeam
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var grants []models.Achievement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user.TeamID = &team.ID
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("team_id", team.ID).Error; err != nil {
			return err
		}
		var err error
		grants, err = s.gam.EvaluateAchievements(tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &team, grants, nil
}

// LeaveTeam removes the user from their team. The owner cannot leave
// while other members remain; an owner alone disbands the team.
func (s *TeamService) LeaveTeam(user *models.User) error {
	if user.TeamID == nil {
		return ErrNoTeam
	}
	teamID := *user.TeamID

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if team.OwnerID == user.ID {
			var others int64
			if err := tx.Model(&models.User{}).
				Where("team_id = ? AND id <> ?", teamID, user.ID).
				Count(&others).Error; err != nil {
				return err
			}
			if others > 0 {
				return ErrOwnerCantLeave
			}
			if err := tx.Delete(&models.Team{}, teamID).Error; err != nil {
				return err
			}
		}
		user.TeamID = nil
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("team_id", nil).Error
	})
}

// KickMember removes a member from the team. Only the owner may kick,
// and never themselves.
func (s *TeamService) KickMember(owner *models.User, memberID uint) error {
	if owner.TeamID == nil {
		return ErrNoTeam
	}
	var team models.Team
	if err := s.db.First(&team, *owner.TeamID).Error; err != nil {
		return err
	}
	if team.OwnerID != owner.ID {
		return ErrNotTeamOwner
	}
	if memberID == owner.ID {
		return fmt.Errorf("owner cannot kick themselves: %w", ErrNotTeamOwner)
	}

	res := s.db.Model(&models.User{}).
		Where("id = ? AND team_id = ?", memberID, team.ID).
		Update("team_id", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTeam loads a team with its members and owner.
func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Owner").Preload("Members").Preload("Members.Level").
		First(&team, teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams returns all teams with their derived point totals.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Preload("Owner").Preload("Members").Order("name ASC").Find(&teams).Error
	return teams, err
}

// TotalPoints derives a team's score as the sum of member points. The
// total is never stored; it always reflects current membership.
func (s *TeamService) TotalPoints(tx *gorm.DB, teamID uint) (int, error) {
	var total int
	err := tx.Model(&models.User{}).
		Where("team_id = ?", teamID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}
