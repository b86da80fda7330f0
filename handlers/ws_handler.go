package handlers

import (
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/anjiri1684/skill_swap/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type EventsHandler struct {
	hub       *websocket.Hub
	jwtSecret string
}

func NewEventsHandler(hub *websocket.Hub, jwtSecret string) *EventsHandler {
	return &EventsHandler{hub: hub, jwtSecret: jwtSecret}
}

// Upgrade rejects plain HTTP requests on the websocket route.
func (h *EventsHandler) Upgrade(c *fiber.Ctx) error {
	if websocketcontrib.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWs expects {"type":"auth","token":...} as the first frame, then streams booking
// events for that user until the socket closes.
func (h *EventsHandler) ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Warnf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	userID, err := utils.ParseToken(authMsg.Token, h.jwtSecret)
	if err != nil {
		log.Warnf("WebSocket auth failed: invalid token: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	client := websocket.NewClient(userID)
	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		c.Close()
	}()
	_ = c.WriteJSON(fiber.Map{"type": "auth.ok"})

	go func() {
		for payload := range client.Send() {
			if err := c.WriteMessage(websocketcontrib.TextMessage, payload); err != nil {
				log.Warnf("Error sending event to client %s: %v", userID, err)
				return
			}
		}
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsUnexpectedCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Warnf("WebSocket closed for client %s: %v", userID, err)
			}
			return
		}
	}
}
