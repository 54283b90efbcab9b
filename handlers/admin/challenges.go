// handlers/admin/challenges.go - Challenge administration
package admin

import (
	"oraculo/database"
	"oraculo/models"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ChallengeRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"required"`
	ExpectedAnswer  string `json:"expected_answer" validate:"required,max=500"`
	ExpectedOutput  string `json:"expected_output"`
	ChallengeType   string `json:"challenge_type" validate:"omitempty,oneof=text code"`
	PointsReward    int    `json:"points_reward" validate:"gte=0"`
	LevelRequired   string `json:"level_required"`
	IsTeamChallenge bool   `json:"is_team_challenge"`
	Hint            string `json:"hint"`
	HintCost        int    `json:"hint_cost" validate:"gte=0"`
}

func (r *ChallengeRequest) apply(challenge *models.Challenge) {
	challenge.Title = r.Title
	challenge.Description = r.Description
	challenge.ExpectedAnswer = r.ExpectedAnswer
	challenge.ExpectedOutput = r.ExpectedOutput
	if r.ChallengeType != "" {
		challenge.ChallengeType = r.ChallengeType
	}
	if r.PointsReward > 0 {
		challenge.PointsReward = r.PointsReward
	}
	if r.LevelRequired != "" {
		challenge.LevelRequired = r.LevelRequired
	}
	challenge.IsTeamChallenge = r.IsTeamChallenge
	challenge.Hint = r.Hint
	if r.HintCost > 0 {
		challenge.HintCost = r.HintCost
	}
}

func ListChallenges(c *fiber.Ctx) error {
	var challenges []models.Challenge
	if err := database.GetDB().Order("id ASC").Find(&challenges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load challenges"})
	}
	// Admin view includes answers and hints
	type adminView struct {
		models.Challenge
		ExpectedAnswer string `json:"expected_answer"`
		Hint           string `json:"hint"`
	}
	views := make([]adminView, 0, len(challenges))
	for _, ch := range challenges {
		views = append(views, adminView{Challenge: ch, ExpectedAnswer: ch.ExpectedAnswer, Hint: ch.Hint})
	}
	return c.JSON(fiber.Map{"success": true, "challenges": views})
}

func CreateChallenge(c *fiber.Ctx) error {
	var req ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var challenge models.Challenge
	req.apply(&challenge)
	if err := database.GetDB().Create(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create challenge"})
	}

	audit(c, "challenge.create", "challenge", challenge.ID, challenge.Title)
	return c.Status(201).JSON(fiber.Map{"success": true, "challenge": challenge})
}

func UpdateChallenge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}

	var req ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var challenge models.Challenge
	if err := db.First(&challenge, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Challenge not found"})
	}

	req.apply(&challenge)
	if err := db.Save(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update challenge"})
	}

	audit(c, "challenge.update", "challenge", challenge.ID, challenge.Title)
	return c.JSON(fiber.Map{"success": true, "challenge": challenge})
}

func DeleteChallenge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		// Completion history stays; memberships and bindings go
		if err := tx.Where("challenge_id = ?", id).
			Delete(&models.PathChallenge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Challenge{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete challenge"})
	}

	audit(c, "challenge.delete", "challenge", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}

// DailyHistory lists past daily challenge selections.
func DailyHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 30)

	daily := services.NewDailyService(database.GetDB())
	history, err := daily.History(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load history"})
	}
	return c.JSON(fiber.Map{"success": true, "history": history})
}
