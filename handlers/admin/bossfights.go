// handlers/admin/bossfights.go - Boss fight administration
package admin

import (
	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BossStepRequest struct {
	Description    string `json:"description" validate:"required"`
	ExpectedAnswer string `json:"expected_answer" validate:"required,max=500"`
}

type BossStageRequest struct {
	Name  string            `json:"name" validate:"required,max=200"`
	Steps []BossStepRequest `json:"steps" validate:"required,min=1,dive"`
}

type BossFightRequest struct {
	Name         string             `json:"name" validate:"required,max=200"`
	Description  string             `json:"description" validate:"required"`
	RewardPoints int                `json:"reward_points" validate:"required,gte=1"`
	IsActive     bool               `json:"is_active"`
	ImageURL     string             `json:"image_url"`
	Stages       []BossStageRequest `json:"stages" validate:"required,min=1,dive"`
}

func ListBossFights(c *fiber.Ctx) error {
	var bosses []models.BossFight
	if err := database.GetDB().Preload("Stages", func(db *gorm.DB) *gorm.DB {
		return db.Order("stage_order ASC")
	}).Preload("Stages.Steps").Order("id ASC").Find(&bosses).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load boss fights"})
	}
	return c.JSON(fiber.Map{"success": true, "boss_fights": bosses})
}

// CreateBossFight creates a boss with its full stage and step tree in one
// transaction.
func CreateBossFight(c *fiber.Ctx) error {
	var req BossFightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	boss := models.BossFight{
		Name:         req.Name,
		Description:  req.Description,
		RewardPoints: req.RewardPoints,
		IsActive:     req.IsActive,
		ImageURL:     req.ImageURL,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&boss).Error; err != nil {
			return err
		}
		for i, stageReq := range req.Stages {
			stage := models.BossFightStage{
				BossFightID: boss.ID,
				Name:        stageReq.Name,
				Order:       i + 1,
			}
			if err := tx.Create(&stage).Error; err != nil {
				return err
			}
			for _, stepReq := range stageReq.Steps {
				step := models.BossFightStep{
					StageID:        stage.ID,
					Description:    stepReq.Description,
					ExpectedAnswer: stepReq.ExpectedAnswer,
				}
				if err := tx.Create(&step).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create boss fight"})
	}

	audit(c, "boss_fight.create", "boss_fight", boss.ID, boss.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "boss_fight": boss})
}

// SetBossFightActive toggles a boss's availability.
func SetBossFightActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid boss id"})
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	res := database.GetDB().Model(&models.BossFight{}).
		Where("id = ?", id).Update("is_active", req.IsActive)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update boss fight"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Boss fight not found"})
	}

	audit(c, "boss_fight.toggle", "boss_fight", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}

func DeleteBossFight(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid boss id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		var stageIDs []uint
		if err := tx.Model(&models.BossFightStage{}).
			Where("boss_fight_id = ?", id).Pluck("id", &stageIDs).Error; err != nil {
			return err
		}
		if len(stageIDs) > 0 {
			var stepIDs []uint
			if err := tx.Model(&models.BossFightStep{}).
				Where("stage_id IN ?", stageIDs).Pluck("id", &stepIDs).Error; err != nil {
				return err
			}
			if len(stepIDs) > 0 {
				if err := tx.Where("step_id IN ?", stepIDs).
					Delete(&models.TeamBossProgress{}).Error; err != nil {
					return err
				}
				if err := tx.Where("stage_id IN ?", stageIDs).
					Delete(&models.BossFightStep{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("boss_fight_id = ?", id).
				Delete(&models.BossFightStage{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("boss_fight_id = ?", id).
			Delete(&models.TeamBossCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BossFight{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete boss fight"})
	}

	audit(c, "boss_fight.delete", "boss_fight", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
