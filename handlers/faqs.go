// handlers/faqs.go
package handlers

import (
	"strings"
	"time"

	"oraculo/database"
	"oraculo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListFAQs returns FAQs, optionally filtered by category or a keyword
// search over question, answer and keywords.
func ListFAQs(c *fiber.Ctx) error {
	db := database.GetDB()
	query := db.Model(&models.FAQ{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(question) LIKE ? OR LOWER(answer) LIKE ? OR LOWER(keywords) LIKE ?",
			pattern, pattern, pattern)
	}

	var faqs []models.FAQ
	if err := query.Order("views DESC, id ASC").Find(&faqs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load FAQs"})
	}
	return c.JSON(fiber.Map{"success": true, "faqs": faqs})
}

// GetFAQ returns one FAQ and bumps its view counter.
func GetFAQ(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid FAQ id"})
	}

	db := database.GetDB()
	var faq models.FAQ
	if err := db.First(&faq, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "FAQ not found"})
	}

	db.Model(&models.FAQ{}).Where("id = ?", faq.ID).
		Update("views", gorm.Expr("views + 1"))
	faq.Views++

	return c.JSON(fiber.Map{"success": true, "faq": faq})
}

// ExportFAQs streams every FAQ as a JSON attachment.
func ExportFAQs(c *fiber.Ctx) error {
	var faqs []models.FAQ
	if err := database.GetDB().Order("category ASC, id ASC").Find(&faqs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load FAQs"})
	}

	filename := "faqs-" + time.Now().UTC().Format("2006-01-02") + ".json"
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.JSON(faqs)
}
