// handlers/paths.go
package handlers

import (
	"oraculo/database"
	"oraculo/middleware"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
)

// ListPaths returns active learning paths with the caller's completion state.
func ListPaths(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	db := database.GetDB()

	var paths []models.LearningPath
	if err := db.Preload("Challenges.Challenge").
		Where("is_active = ?", true).Order("name ASC").Find(&paths).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load paths"})
	}

	var doneIDs []uint
	db.Model(&models.UserPathProgress{}).Where("user_id = ?", user.ID).
		Pluck("path_id", &doneIDs)
	done := make(map[uint]bool, len(doneIDs))
	for _, id := range doneIDs {
		done[id] = true
	}

	var completedChallengeIDs []uint
	db.Model(&models.UserChallenge{}).Where("user_id = ?", user.ID).
		Pluck("challenge_id", &completedChallengeIDs)
	completed := make(map[uint]bool, len(completedChallengeIDs))
	for _, id := range completedChallengeIDs {
		completed[id] = true
	}

	type pathView struct {
		models.LearningPath
		Completed      bool `json:"completed"`
		ChallengesDone int  `json:"challenges_done"`
		ChallengeCount int  `json:"challenge_count"`
	}
	views := make([]pathView, 0, len(paths))
	for i := range paths {
		doneCount := 0
		for _, pc := range paths[i].Challenges {
			if completed[pc.ChallengeID] {
				doneCount++
			}
		}
		views = append(views, pathView{
			LearningPath:   paths[i],
			Completed:      done[paths[i].ID],
			ChallengesDone: doneCount,
			ChallengeCount: len(paths[i].Challenges),
		})
	}

	return c.JSON(fiber.Map{"success": true, "paths": views})
}

// GetPath returns one path with its ordered challenge list.
func GetPath(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid path id"})
	}

	var path models.LearningPath
	if err := database.GetDB().Preload("Challenges.Challenge").
		First(&path, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Path not found"})
	}
	return c.JSON(fiber.Map{"success": true, "path": path})
}
