// handlers/admin/events.go - Global event administration
package admin

import (
	"time"

	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
)

type EventRequest struct {
	Name              string    `json:"name" validate:"required,max=200"`
	Description       string    `json:"description" validate:"required"`
	TotalHP           int64     `json:"total_hp" validate:"required,gte=1"`
	StartDate         time.Time `json:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" validate:"required"`
	RewardPointsOnWin int       `json:"reward_points_on_win" validate:"gte=0"`
}

func ListEvents(c *fiber.Ctx) error {
	var events []models.GlobalEvent
	if err := database.GetDB().Order("start_date DESC").Find(&events).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load events"})
	}
	return c.JSON(fiber.Map{"success": true, "events": events})
}

func CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	if !req.EndDate.After(req.StartDate) {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "end_date must be after start_date"})
	}

	event := models.GlobalEvent{
		Name:              req.Name,
		Description:       req.Description,
		TotalHP:           req.TotalHP,
		CurrentHP:         req.TotalHP,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		RewardPointsOnWin: req.RewardPointsOnWin,
	}
	if err := database.GetDB().Create(&event).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create event"})
	}

	audit(c, "event.create", "global_event", event.ID, event.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "event": event})
}

// ActivateEvent flips an event live and announces it. Only one event
// should be active at a time; activating deactivates the others.
func ActivateEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid event id"})
	}

	db := database.GetDB()
	var event models.GlobalEvent
	if err := db.First(&event, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Event not found"})
	}

	if err := db.Model(&models.GlobalEvent{}).Where("id <> ?", event.ID).
		Update("is_active", false).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to activate event"})
	}
	if err := db.Model(&models.GlobalEvent{}).Where("id = ?", event.ID).
		Update("is_active", true).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to activate event"})
	}

	if deps.Notifications != nil {
		deps.Notifications.NotifyAll("info", models.NotifCategoryEvent,
			"Um novo Boss Global apareceu: "+event.Name+"! Complete desafios para causar dano!",
			map[string]interface{}{"event_id": event.ID})
	}

	audit(c, "event.activate", "global_event", event.ID, event.Name)
	return c.JSON(fiber.Map{"success": true})
}

func DeactivateEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid event id"})
	}

	res := database.GetDB().Model(&models.GlobalEvent{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to deactivate event"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Event not found"})
	}

	audit(c, "event.deactivate", "global_event", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
