// handlers/admin/battles.go - Team battle administration
package admin

import (
	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListBattles(c *fiber.Ctx) error {
	status := c.Query("status")
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)

	db := database.GetDB()
	query := db.Model(&models.TeamBattle{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load battles"})
	}

	var battles []models.TeamBattle
	if err := query.
		Preload("ChallengingTeam").Preload("ChallengedTeam").Preload("WinnerTeam").
		Order("start_time DESC").Limit(limit).Offset(offset).
		Find(&battles).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load battles"})
	}
	return c.JSON(fiber.Map{"success": true, "battles": battles, "total": total})
}

// DeleteBattle removes a battle and its challenge bindings. Points already
// paid out by a finalized battle are not clawed back.
func DeleteBattle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid battle id"})
	}

	db := database.GetDB()
	var battle models.TeamBattle
	if err := db.First(&battle, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Battle not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("battle_id = ?", battle.ID).
			Delete(&models.TeamBattleChallenge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&battle).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete battle"})
	}

	audit(c, "battle.delete", "team_battle", battle.ID, battle.Status)
	return c.JSON(fiber.Map{"success": true})
}
