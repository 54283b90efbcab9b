// handlers/admin/hunts.go - Scavenger hunt administration
package admin

import (
	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HuntStepRequest struct {
	ClueText         string `json:"clue_text" validate:"required"`
	TargetType       string `json:"target_type" validate:"required,oneof=FAQ CHALLENGE"`
	TargetIdentifier string `json:"target_identifier" validate:"required,max=200"`
	HiddenClue       string `json:"hidden_clue" validate:"required"`
}

type HuntRequest struct {
	Name         string            `json:"name" validate:"required,max=200"`
	Description  string            `json:"description" validate:"required"`
	RewardPoints int               `json:"reward_points" validate:"gte=0"`
	IsActive     bool              `json:"is_active"`
	Steps        []HuntStepRequest `json:"steps" validate:"required,min=1,dive"`
}

func ListHunts(c *fiber.Ctx) error {
	var hunts []models.ScavengerHunt
	if err := database.GetDB().Preload("Steps").Order("id ASC").Find(&hunts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load hunts"})
	}
	return c.JSON(fiber.Map{"success": true, "hunts": hunts})
}

func CreateHunt(c *fiber.Ctx) error {
	var req HuntRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	hunt := models.ScavengerHunt{
		Name:         req.Name,
		Description:  req.Description,
		RewardPoints: req.RewardPoints,
		IsActive:     req.IsActive,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&hunt).Error; err != nil {
			return err
		}
		for i, stepReq := range req.Steps {
			step := models.ScavengerHuntStep{
				HuntID:           hunt.ID,
				StepNumber:       i + 1,
				ClueText:         stepReq.ClueText,
				TargetType:       stepReq.TargetType,
				TargetIdentifier: stepReq.TargetIdentifier,
				HiddenClue:       stepReq.HiddenClue,
			}
			if err := tx.Create(&step).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create hunt"})
	}

	audit(c, "hunt.create", "scavenger_hunt", hunt.ID, hunt.Name)
	return c.Status(201).JSON(fiber.Map{"success": true, "hunt": hunt})
}

func SetHuntActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid hunt id"})
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	res := database.GetDB().Model(&models.ScavengerHunt{}).
		Where("id = ?", id).Update("is_active", req.IsActive)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update hunt"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Hunt not found"})
	}

	audit(c, "hunt.toggle", "scavenger_hunt", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}

func DeleteHunt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid hunt id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hunt_id = ?", id).
			Delete(&models.UserHuntProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hunt_id = ?", id).
			Delete(&models.ScavengerHuntStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ScavengerHunt{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete hunt"})
	}

	audit(c, "hunt.delete", "scavenger_hunt", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
