// handlers/deps.go - Shared handler dependencies
package handlers

import (
	"errors"

	"oraculo/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Deps holds the service instances the handlers dispatch to. Wired once
// from main before routes are registered.
type Deps struct {
	Gamification  *services.GamificationService
	Submissions   *services.SubmissionService
	Teams         *services.TeamService
	Battles       *services.BattleService
	Bosses        *services.BossService
	Events        *services.EventService
	Hunts         *services.HuntService
	Daily         *services.DailyService
	Leaderboard   *services.LeaderboardService
	Notifications *services.NotificationService
	Audit         *services.AuditService
	Hints         services.HintGenerator
	Hub           *services.Hub
}

var (
	deps     Deps
	validate = validator.New()
)

func Init(d Deps) {
	deps = d
}

// serviceError maps the service error taxonomy onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	status := 500
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = 404
	case errors.Is(err, services.ErrEmptyAnswer),
		errors.Is(err, services.ErrSelfBattle),
		errors.Is(err, services.ErrBattleExists),
		errors.Is(err, services.ErrNotEnoughChallenges),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrAlreadyInTeam),
		errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrOwnerCantLeave),
		errors.Is(err, services.ErrHuntInactive),
		errors.Is(err, services.ErrHuntFinished),
		errors.Is(err, services.ErrHuntNotJoined):
		status = 400
	case errors.Is(err, services.ErrInsufficientFunds):
		status = 402
	case errors.Is(err, services.ErrChallengeLocked),
		errors.Is(err, services.ErrNotTeamOwner),
		errors.Is(err, services.ErrNoTeam):
		status = 403
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}
