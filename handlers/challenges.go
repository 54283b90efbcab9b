// handlers/challenges.go
package handlers

import (
	"oraculo/database"
	"oraculo/middleware"
	"oraculo/models"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
)

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// challengeLocked reports whether the challenge's required level sits
// above the user's current tier. An unknown required level never locks.
func challengeLocked(user *models.User, challenge *models.Challenge) bool {
	if challenge.LevelRequired == "" {
		return false
	}
	db := database.GetDB()

	var required models.Level
	if err := db.Where("name = ?", challenge.LevelRequired).First(&required).Error; err != nil {
		return false
	}

	userMin := 0
	if user.Level != nil {
		userMin = user.Level.MinPoints
	} else if user.LevelID != nil {
		var current models.Level
		if err := db.First(&current, *user.LevelID).Error; err == nil {
			userMin = current.MinPoints
		}
	}
	return userMin < required.MinPoints
}

// ListChallenges returns all challenges annotated with the caller's
// completion and lock state.
func ListChallenges(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var challenges []models.Challenge
	if err := db.Order("points_reward ASC, id ASC").Find(&challenges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load challenges"})
	}

	var completedIDs []uint
	db.Model(&models.UserChallenge{}).Where("user_id = ?", user.ID).
		Pluck("challenge_id", &completedIDs)
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	type challengeView struct {
		models.Challenge
		Completed bool `json:"completed"`
		Locked    bool `json:"locked"`
	}
	views := make([]challengeView, 0, len(challenges))
	for i := range challenges {
		views = append(views, challengeView{
			Challenge: challenges[i],
			Completed: completed[challenges[i].ID],
			Locked:    challengeLocked(user, &challenges[i]),
		})
	}

	return c.JSON(fiber.Map{"success": true, "challenges": views})
}

// GetChallenge returns one challenge without its answer fields.
func GetChallenge(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}

	var challenge models.Challenge
	if err := database.GetDB().First(&challenge, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Challenge not found"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"challenge": challenge,
		"locked":    challengeLocked(user, &challenge),
	})
}

// SubmitChallenge runs the full submission pipeline for one answer.
func SubmitChallenge(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}

	var req SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var challenge models.Challenge
	if err := database.GetDB().First(&challenge, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Challenge not found"})
	}
	if challengeLocked(user, &challenge) {
		return serviceError(c, services.ErrChallengeLocked)
	}

	result, err := deps.Submissions.Submit(c.UserContext(), user, uint(id), req.Answer)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "result": result})
}

// PurchaseHint debits points in exchange for a hint.
func PurchaseHint(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}
	attempts := c.QueryInt("attempts", 0)

	hint, cost, err := deps.Submissions.PurchaseHint(c.UserContext(), user, uint(id), deps.Hints, attempts)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"hint":             hint,
		"cost":             cost,
		"remaining_points": user.Points,
	})
}

// GetDailyChallenge returns (creating if needed) today's bonus challenge.
func GetDailyChallenge(c *fiber.Ctx) error {
	daily, err := deps.Daily.GetOrCreateDaily()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to resolve daily challenge"})
	}
	if daily == nil {
		return c.JSON(fiber.Map{"success": true, "daily": nil})
	}
	return c.JSON(fiber.Map{"success": true, "daily": daily})
}
