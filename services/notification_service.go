// services/notification_service.go - Persistent notifications with websocket push
package services

import (
	"encoding/json"
	"sync"
	"time"

	"oraculo/logger"
	"oraculo/models"

	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

// Hub tracks connected websocket clients and fans notifications out to
// them. Delivery is best effort; a dead connection is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]uint // conn -> user id (0 = anonymous)
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

func (h *Hub) Register(conn *websocket.Conn, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = userID
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *Hub) send(payload interface{}, filter func(userID uint) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, uid := range h.clients {
		if filter != nil && !filter(uid) {
			continue
		}
		if err := conn.WriteJSON(payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// NotificationService persists notifications and pushes them over the
// hub. The engine never depends on delivery succeeding.
type NotificationService struct {
	db  *gorm.DB
	hub *Hub
}

func NewNotificationService(db *gorm.DB, hub *Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

type notificationPayload struct {
	Type      string                 `json:"type"`
	Category  string                 `json:"category"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (s *NotificationService) save(userID *uint, typ, category, message string, data map[string]interface{}) {
	encoded := ""
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			encoded = string(raw)
		}
	}
	notification := models.Notification{
		UserID:   userID,
		Type:     typ,
		Category: category,
		Message:  message,
		Data:     encoded,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		logger.Get().WithError(err).Warn("failed to persist notification")
	}
}

func (s *NotificationService) payload(typ, category, message string, data map[string]interface{}) notificationPayload {
	if data == nil {
		data = map[string]interface{}{}
	}
	return notificationPayload{
		Type:      typ,
		Category:  category,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

// NotifyUser persists and pushes a notification for one user.
func (s *NotificationService) NotifyUser(userID uint, typ, category, message string, data map[string]interface{}) {
	s.save(&userID, typ, category, message, data)
	if s.hub != nil {
		s.hub.send(s.payload(typ, category, message, data), func(uid uint) bool {
			return uid == userID
		})
	}
}

// NotifyTeam persists per member and pushes to every connected member.
func (s *NotificationService) NotifyTeam(teamID uint, typ, category, message string, data map[string]interface{}) {
	var memberIDs []uint
	if err := s.db.Model(&models.User{}).Where("team_id = ?", teamID).
		Pluck("id", &memberIDs).Error; err != nil {
		logger.Get().WithError(err).Warn("failed to load team members for notification")
		return
	}
	members := make(map[uint]bool, len(memberIDs))
	for _, id := range memberIDs {
		s.save(&id, typ, category, message, data)
		members[id] = true
	}
	if s.hub != nil {
		s.hub.send(s.payload(typ, category, message, data), func(uid uint) bool {
			return members[uid]
		})
	}
}

// NotifyAll persists one global row and broadcasts to everyone.
func (s *NotificationService) NotifyAll(typ, category, message string, data map[string]interface{}) {
	s.save(nil, typ, category, message, data)
	if s.hub != nil {
		s.hub.send(s.payload(typ, category, message, data), nil)
	}
}

// ListForUser returns the user's notifications plus globals, newest first.
func (s *NotificationService) ListForUser(userID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := s.db.Where("user_id = ? OR user_id IS NULL", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	var rows []models.Notification
	err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// MarkRead flags the user's notifications as read.
func (s *NotificationService) MarkRead(userID uint, ids []uint) error {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	return query.Update("read", true).Error
}
