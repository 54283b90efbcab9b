// handlers/events.go
package handlers

import (
	"oraculo/database"

	"github.com/gofiber/fiber/v2"
)

// GetActiveEvent returns the event currently accepting damage, if any.
func GetActiveEvent(c *fiber.Ctx) error {
	event, err := deps.Events.ActiveEvent(database.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load event"})
	}
	return c.JSON(fiber.Map{"success": true, "event": event})
}

// EventContributions returns the damage ledger for one event.
func EventContributions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid event id"})
	}

	contributions, err := deps.Events.Contributions(uint(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load contributions"})
	}
	return c.JSON(fiber.Map{"success": true, "contributions": contributions})
}
