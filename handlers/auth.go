// handlers/auth.go
package handlers

import (
	"errors"
	"time"

	"oraculo/database"
	"oraculo/middleware"
	"oraculo/models"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	InvitationCode string `json:"invitation_code" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account. Registration is invitation-gated: the
// code must exist and be unused, and it burns in the same transaction
// that creates the account.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to process password"})
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Burn guarded on used = false so two registrations cannot share
		// one code
		res := tx.Model(&models.InvitationCode{}).
			Where("code = ? AND used = ?", req.InvitationCode, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrNotFound
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New("email already registered")
			}
			return err
		}

		return tx.Model(&models.InvitationCode{}).
			Where("code = ?", req.InvitationCode).
			Update("used_by_user_id", user.ID).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid or already used invitation code"})
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	if deps.Audit != nil {
		deps.Audit.Record(services.AuditEntry{
			Actor: &user, Action: "user.register", EntityType: "user",
			EntityID: &user.ID, IPAddress: c.IP(),
		})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "token": token, "user": user})
}

// Login authenticates by email and password.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.Preload("Level").Preload("Team").
		Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", time.Now().UTC())

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{"success": true, "token": token, "user": user})
}

// Me returns the authenticated user's profile with progression data.
func Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var achievements []models.UserAchievement
	db.Preload("Achievement").Where("user_id = ?", user.ID).Find(&achievements)

	var completed int64
	db.Model(&models.UserChallenge{}).Where("user_id = ?", user.ID).Count(&completed)

	var paths int64
	db.Model(&models.UserPathProgress{}).Where("user_id = ?", user.ID).Count(&paths)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"stats": fiber.Map{
			"challenges_completed": completed,
			"paths_completed":      paths,
			"achievements":         achievements,
		},
	})
}
