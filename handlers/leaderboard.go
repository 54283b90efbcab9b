// handlers/leaderboard.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the top ranked users.
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit > 100 {
		limit = 100
	}

	entries, err := deps.Leaderboard.TopUsers(c.UserContext(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load leaderboard"})
	}
	return c.JSON(fiber.Map{"success": true, "leaderboard": entries})
}

// GetTeamLeaderboard returns teams ranked by derived member point totals.
func GetTeamLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit > 100 {
		limit = 100
	}

	entries, err := deps.Leaderboard.TeamRanking(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load team ranking"})
	}
	return c.JSON(fiber.Map{"success": true, "leaderboard": entries})
}
