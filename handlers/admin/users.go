// handlers/admin/users.go - User, team, invitation and audit administration
package admin

import (
	"fmt"

	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	db := database.GetDB()
	var total int64
	db.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := db.Preload("Level").Preload("Team").
		Order("points DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load users"})
	}
	return c.JSON(fiber.Map{"success": true, "users": users, "total": total})
}

type AdjustPointsRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// AdjustUserPoints credits or debits points manually and re-resolves the
// user's level in the same transaction.
func AdjustUserPoints(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user id"})
	}

	var req AdjustPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user.Points += req.Delta
		if user.Points < 0 {
			user.Points = 0
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", user.Points).Error; err != nil {
			return err
		}
		_, _, err := deps.Gamification.UpdateUserLevel(tx, &user)
		return err
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to adjust points"})
	}

	if deps.Leaderboard != nil {
		deps.Leaderboard.UpdateScore(&user)
	}
	audit(c, "user.adjust_points", "user", user.ID,
		fmt.Sprintf("delta=%d reason=%s", req.Delta, req.Reason))

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// SetUserAdmin toggles the admin flag.
func SetUserAdmin(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user id"})
	}

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	res := database.GetDB().Model(&models.User{}).
		Where("id = ?", id).Update("is_admin", req.IsAdmin)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	audit(c, "user.set_admin", "user", uint(id), fmt.Sprintf("is_admin=%t", req.IsAdmin))
	return c.JSON(fiber.Map{"success": true})
}

func DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserAchievement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserChallenge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserPathProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserHuntProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete user"})
	}

	if deps.Leaderboard != nil {
		deps.Leaderboard.RemoveUser(uint(id))
	}
	audit(c, "user.delete", "user", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}

// DeleteTeam disbands a team, detaching its members.
func DeleteTeam(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team id"})
	}

	db := database.GetDB()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, id).Error
	}); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete team"})
	}

	audit(c, "team.delete", "team", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}

type GenerateInvitationsRequest struct {
	Count int `json:"count" validate:"required,gte=1,lte=100"`
}

// GenerateInvitations mints single-use registration codes.
func GenerateInvitations(c *fiber.Ctx) error {
	var req GenerateInvitationsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	codes := make([]models.InvitationCode, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		codes = append(codes, models.InvitationCode{Code: uuid.New().String()})
	}
	if err := db.Create(&codes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate invitations"})
	}

	audit(c, "invitation.generate", "invitation_code", 0, fmt.Sprintf("count=%d", req.Count))
	return c.Status(201).JSON(fiber.Map{"success": true, "codes": codes})
}

func ListInvitations(c *fiber.Ctx) error {
	var codes []models.InvitationCode
	if err := database.GetDB().Preload("UsedByUser").
		Order("created_at DESC").Find(&codes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load invitations"})
	}
	return c.JSON(fiber.Map{"success": true, "codes": codes})
}

// ListAuditLogs pages through the audit trail.
func ListAuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	action := c.Query("action")

	rows, total, err := deps.Audit.List(action, limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load audit logs"})
	}
	return c.JSON(fiber.Map{"success": true, "logs": rows, "total": total})
}
