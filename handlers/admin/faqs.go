// handlers/admin/faqs.go - FAQ administration
package admin

import (
	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
)

type FAQRequest struct {
	Question      string `json:"question" validate:"required,max=300"`
	Answer        string `json:"answer" validate:"required"`
	Category      string `json:"category"`
	Keywords      string `json:"keywords"`
	AttachmentURL string `json:"attachment_url"`
}

func CreateFAQ(c *fiber.Ctx) error {
	var req FAQRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	faq := models.FAQ{
		Question:      req.Question,
		Answer:        req.Answer,
		Category:      req.Category,
		Keywords:      req.Keywords,
		AttachmentURL: req.AttachmentURL,
	}
	if err := database.GetDB().Create(&faq).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create FAQ"})
	}

	audit(c, "faq.create", "faq", faq.ID, faq.Question)
	return c.Status(201).JSON(fiber.Map{"success": true, "faq": faq})
}

func UpdateFAQ(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid FAQ id"})
	}

	var req FAQRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var faq models.FAQ
	if err := db.First(&faq, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "FAQ not found"})
	}

	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.Category = req.Category
	faq.Keywords = req.Keywords
	faq.AttachmentURL = req.AttachmentURL
	if err := db.Save(&faq).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update FAQ"})
	}

	audit(c, "faq.update", "faq", faq.ID, faq.Question)
	return c.JSON(fiber.Map{"success": true, "faq": faq})
}

func DeleteFAQ(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid FAQ id"})
	}

	if err := database.GetDB().Delete(&models.FAQ{}, id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete FAQ"})
	}

	audit(c, "faq.delete", "faq", uint(id), "")
	return c.JSON(fiber.Map{"success": true})
}
