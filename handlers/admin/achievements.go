// handlers/admin/achievements.go - Achievement administration
package admin

import (
	"errors"

	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AchievementRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	Icon         string `json:"icon"`
	TriggerType  string `json:"trigger_type" validate:"required,oneof=challenges_completed points_earned paths_completed first_team_join"`
	TriggerValue int    `json:"trigger_value" validate:"required,gte=1"`
}

func ListAchievements(c *fiber.Ctx) error {
	var achievements []models.Achievement
	if err := database.GetDB().Order("trigger_type ASC, trigger_value ASC").
		Find(&achievements).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load achievements"})
	}
	return c.JSON(fiber.Map{"success": true, "achievements": achievements})
}

func CreateAchievement(c *fiber.Ctx) error {
	var req AchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	achievement := models.Achievement{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		TriggerType:  req.TriggerType,
		TriggerValue: req.TriggerValue,
	}
	if err := database.GetDB().Create(&achievement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Achievement name already in use"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create achievement"})
	}

	audit(c, "achievement.create", "achievement", achievement.ID, achievement.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "achievement": achievement})
}

func UpdateAchievement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid achievement id"})
	}

	var req AchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var achievement models.Achievement
	if err := db.First(&achievement, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Achievement not found"})
	}

	achievement.Name = req.Name
	achievement.Description = req.Description
	achievement.Icon = req.Icon
	achievement.TriggerType = req.TriggerType
	achievement.TriggerValue = req.TriggerValue
	if err := db.Save(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update achievement"})
	}

	audit(c, "achievement.update", "achievement", achievement.ID, achievement.Name)
	return c.JSON(fiber.Map{"success": true, "achievement": achievement})
}

func DeleteAchievement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid achievement id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", id).
			Delete(&models.UserAchievement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Achievement{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete achievement"})
	}

	audit(c, "achievement.delete", "achievement", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
