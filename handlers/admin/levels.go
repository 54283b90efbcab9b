// handlers/admin/levels.go - Level tier administration
package admin

import (
	"errors"

	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LevelRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	MinPoints *int   `json:"min_points" validate:"required,gte=0"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
}

func ListLevels(c *fiber.Ctx) error {
	var levels []models.Level
	if err := database.GetDB().Order("min_points ASC").Find(&levels).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load levels"})
	}
	return c.JSON(fiber.Map{"success": true, "levels": levels})
}

func CreateLevel(c *fiber.Ctx) error {
	var req LevelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	level := models.Level{
		Name:      req.Name,
		MinPoints: *req.MinPoints,
		Icon:      req.Icon,
		Color:     req.Color,
	}
	if err := database.GetDB().Create(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Level name or min_points already in use"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create level"})
	}

	audit(c, "level.create", "level", level.ID, level.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "level": level})
}

func UpdateLevel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid level id"})
	}

	var req LevelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var level models.Level
	if err := db.First(&level, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Level not found"})
	}

	level.Name = req.Name
	level.MinPoints = *req.MinPoints
	level.Icon = req.Icon
	level.Color = req.Color
	if err := db.Save(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Level name or min_points already in use"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update level"})
	}

	audit(c, "level.update", "level", level.ID, level.Name)
	return c.JSON(fiber.Map{"success": true, "level": level})
}

func DeleteLevel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid level id"})
	}

	db := database.GetDB()

	// Users referencing the tier fall back to unresolved and re-level on
	// their next point change
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("level_id = ?", id).
			Update("level_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Level{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete level"})
	}

	audit(c, "level.delete", "level", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
