// handlers/admin/paths.go - Learning path administration
package admin

import (
	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PathRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Description  string `json:"description"`
	RewardPoints int    `json:"reward_points" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
	ChallengeIDs []uint `json:"challenge_ids" validate:"required,min=1"`
}

func ListPaths(c *fiber.Ctx) error {
	var paths []models.LearningPath
	if err := database.GetDB().Preload("Challenges.Challenge").
		Order("id ASC").Find(&paths).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load paths"})
	}
	return c.JSON(fiber.Map{"success": true, "paths": paths})
}

func CreatePath(c *fiber.Ctx) error {
	var req PathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	path := models.LearningPath{
		Name:         req.Name,
		Description:  req.Description,
		RewardPoints: req.RewardPoints,
		IsActive:     true,
	}
	if req.IsActive != nil {
		path.IsActive = *req.IsActive
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&path).Error; err != nil {
			return err
		}
		for i, challengeID := range req.ChallengeIDs {
			member := models.PathChallenge{
				PathID:      path.ID,
				ChallengeID: challengeID,
				Step:        i + 1,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create path"})
	}

	audit(c, "path.create", "learning_path", path.ID, path.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "path": path})
}

func UpdatePath(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid path id"})
	}

	var req PathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var path models.LearningPath
	if err := db.First(&path, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Path not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		path.Name = req.Name
		path.Description = req.Description
		path.RewardPoints = req.RewardPoints
		if req.IsActive != nil {
			path.IsActive = *req.IsActive
		}
		if err := tx.Save(&path).Error; err != nil {
			return err
		}

		// Replace the membership set wholesale
		if err := tx.Where("path_id = ?", path.ID).
			Delete(&models.PathChallenge{}).Error; err != nil {
			return err
		}
		for i, challengeID := range req.ChallengeIDs {
			member := models.PathChallenge{
				PathID:      path.ID,
				ChallengeID: challengeID,
				Step:        i + 1,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update path"})
	}

	audit(c, "path.update", "learning_path", path.ID, path.Name)
	return c.JSON(fiber.Map{"success": true, "path": path})
}

func DeletePath(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid path id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("path_id = ?", id).
			Delete(&models.PathChallenge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LearningPath{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete path"})
	}

	audit(c, "path.delete", "learning_path", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
