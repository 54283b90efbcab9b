// handlers/battles.go
package handlers

import (
	"fmt"

	"oraculo/middleware"
	"oraculo/models"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
)

type StartBattleRequest struct {
	ChallengedTeamID uint `json:"challenged_team_id" validate:"required"`
}

// StartBattle opens a battle against another team; owner only.
func StartBattle(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req StartBattleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	battle, err := deps.Battles.StartBattle(user, req.ChallengedTeamID)
	if err != nil {
		return serviceError(c, err)
	}

	if deps.Notifications != nil {
		deps.Notifications.NotifyTeam(req.ChallengedTeamID, "info", models.NotifCategoryBattle,
			"Sua equipe foi desafiada para uma batalha!",
			map[string]interface{}{"battle_id": battle.ID})
	}
	if deps.Audit != nil {
		deps.Audit.Record(services.AuditEntry{
			Actor: user, Action: "battle.start", EntityType: "team_battle",
			EntityID: &battle.ID, IPAddress: c.IP(),
		})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "battle": battle})
}

// GetBattle returns one battle with its challenges and claims.
func GetBattle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid battle id"})
	}

	battle, err := deps.Battles.GetBattle(uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "battle": battle})
}

// MyBattles lists active battles for the caller's team.
func MyBattles(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	if user.TeamID == nil {
		return serviceError(c, services.ErrNoTeam)
	}

	battles, err := deps.Battles.ActiveBattlesForTeam(*user.TeamID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load battles"})
	}
	return c.JSON(fiber.Map{"success": true, "battles": battles})
}

// FinalizeBattles sweeps ended battles, paying winners. Admin endpoint;
// battles never self-finalize on a timer.
func FinalizeBattles(c *fiber.Ctx) error {
	finalized, err := deps.Battles.FinalizeEndedBattles()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if deps.Notifications != nil {
		for _, result := range finalized {
			if result.WinnerTeam != nil {
				deps.Notifications.NotifyTeam(result.WinnerTeam.ID, "success", models.NotifCategoryBattle,
					fmt.Sprintf("Sua equipe venceu a batalha e ganhou %d pontos!", result.Battle.RewardPoints),
					map[string]interface{}{"battle_id": result.Battle.ID})
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "finalized": len(finalized), "results": finalized})
}
