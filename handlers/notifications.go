// handlers/notifications.go
package handlers

import (
	"oraculo/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type MarkReadRequest struct {
	IDs []uint `json:"ids"`
}

// ListNotifications returns the caller's notifications plus globals.
func ListNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	unreadOnly := c.QueryBool("unread", false)
	limit := c.QueryInt("limit", 50)
	if limit > 200 {
		limit = 200
	}

	notifications, err := deps.Notifications.ListForUser(userID, unreadOnly, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load notifications"})
	}
	return c.JSON(fiber.Map{"success": true, "notifications": notifications})
}

// MarkNotificationsRead flags notifications as read. Empty ids marks all.
func MarkNotificationsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req MarkReadRequest
	_ = c.BodyParser(&req)

	if err := deps.Notifications.MarkRead(userID, req.IDs); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to mark notifications"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// WebSocketUpgrade gates the /ws route on a real upgrade request.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationSocket holds the connection open and registers it with the
// hub for pushes. Inbound frames are read and discarded to detect close.
func NotificationSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		var userID uint
		switch v := conn.Locals("userId").(type) {
		case float64:
			userID = uint(v)
		case uint:
			userID = v
		}

		deps.Hub.Register(conn, userID)
		defer deps.Hub.Unregister(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
