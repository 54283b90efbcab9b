// handlers/bossfights.go
package handlers

import (
	"fmt"

	"oraculo/middleware"
	"oraculo/models"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
)

type BossStepRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// ListBossFights returns active bosses with their stages and steps
// (answers excluded by the model's json tags).
func ListBossFights(c *fiber.Ctx) error {
	bosses, err := deps.Bosses.ActiveBosses()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load boss fights"})
	}
	return c.JSON(fiber.Map{"success": true, "boss_fights": bosses})
}

// BossProgress returns the caller's team progress on one boss.
func BossProgress(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	if user.TeamID == nil {
		return serviceError(c, services.ErrNoTeam)
	}

	bossID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid boss id"})
	}

	progress, err := deps.Bosses.TeamProgress(*user.TeamID, uint(bossID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load progress"})
	}
	return c.JSON(fiber.Map{"success": true, "progress": progress})
}

// SubmitBossStep submits an answer to one boss step on behalf of the
// caller's team.
func SubmitBossStep(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	stepID, err := c.ParamsInt("stepId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid step id"})
	}

	var req BossStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	submission, err := deps.Bosses.SubmitStep(user, uint(stepID), req.Answer)
	if err != nil {
		return serviceError(c, err)
	}

	if submission.Result == services.StepAcceptedBossCleared && deps.Notifications != nil && user.TeamID != nil {
		deps.Notifications.NotifyTeam(*user.TeamID, "success", models.NotifCategoryBoss,
			fmt.Sprintf("Sua equipe derrotou %s! Todos ganharam %d pontos!",
				submission.Boss.Name, submission.RewardPoints),
			map[string]interface{}{"boss_id": submission.Boss.ID})
	}

	return c.JSON(fiber.Map{"success": true, "result": submission.Result, "boss": submission.Boss})
}
