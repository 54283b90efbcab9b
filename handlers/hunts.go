// handlers/hunts.go
package handlers

import (
	"oraculo/middleware"

	"github.com/gofiber/fiber/v2"
)

type HuntAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// ListHunts returns active scavenger hunts.
func ListHunts(c *fiber.Ctx) error {
	hunts, err := deps.Hunts.ActiveHunts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load hunts"})
	}
	return c.JSON(fiber.Map{"success": true, "hunts": hunts})
}

// StartHunt enrolls the caller at step one.
func StartHunt(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid hunt id"})
	}

	status, err := deps.Hunts.StartHunt(user, uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "status": status})
}

// HuntStatus reports the caller's position in one hunt.
func HuntStatus(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid hunt id"})
	}

	status, err := deps.Hunts.Status(user, uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "status": status})
}

// SubmitHuntAnswer checks the caller's guess against the current clue.
func SubmitHuntAnswer(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid hunt id"})
	}

	var req HuntAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := deps.Hunts.SubmitAnswer(user, uint(id), req.Answer)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "result": result})
}
