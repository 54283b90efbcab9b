// handlers/admin/deps.go - Admin handler dependencies
package admin

import (
	"oraculo/middleware"
	"oraculo/models"
	"oraculo/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Deps holds the services admin handlers need beyond raw DB access.
type Deps struct {
	Gamification  *services.GamificationService
	Audit         *services.AuditService
	Notifications *services.NotificationService
	Leaderboard   *services.LeaderboardService
}

var (
	deps     Deps
	validate = validator.New()
)

func Init(d Deps) {
	deps = d
}

// actor loads the admin performing the request, for audit attribution.
func actor(c *fiber.Ctx) *models.User {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return nil
	}
	return user
}

func audit(c *fiber.Ctx, action, entityType string, entityID uint, details string) {
	if deps.Audit == nil {
		return
	}
	id := entityID
	deps.Audit.Record(services.AuditEntry{
		Actor:      actor(c),
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Details:    details,
		IPAddress:  c.IP(),
	})
}
