// handlers/teams.go
package handlers

import (
	"oraculo/database"
	"oraculo/middleware"
	"oraculo/models"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
)

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateTeam creates a team owned by the caller.
func CreateTeam(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	team, grants, err := deps.Teams.CreateTeam(user, req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	if deps.Audit != nil {
		deps.Audit.Record(services.AuditEntry{
			Actor: user, Action: "team.create", EntityType: "team",
			EntityID: &team.ID, IPAddress: c.IP(),
		})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "team": team, "achievements": grants})
}

// JoinTeam adds the caller to a team.
func JoinTeam(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team id"})
	}

	team, grants, err := deps.Teams.JoinTeam(user, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "team": team, "achievements": grants})
}

// LeaveTeam removes the caller from their team.
func LeaveTeam(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := deps.Teams.LeaveTeam(user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// KickMember removes a member; owner only.
func KickMember(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	memberID, err := c.ParamsInt("memberId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member id"})
	}

	if err := deps.Teams.KickMember(user, uint(memberID)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetTeam returns a team with members and its derived point total.
func GetTeam(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team id"})
	}

	team, err := deps.Teams.GetTeam(uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	total, err := deps.Teams.TotalPoints(database.GetDB(), team.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to compute team points"})
	}

	var completions []models.TeamBossCompletion
	database.GetDB().Preload("BossFight").Where("team_id = ?", team.ID).Find(&completions)

	return c.JSON(fiber.Map{
		"success":          true,
		"team":             team,
		"total_points":     total,
		"boss_completions": completions,
	})
}

// ListTeams returns all teams.
func ListTeams(c *fiber.Ctx) error {
	teams, err := deps.Teams.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load teams"})
	}
	return c.JSON(fiber.Map{"success": true, "teams": teams})
}
