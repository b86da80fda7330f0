package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// EventsRoutes authenticates inside the socket, so /ws sits outside the JWT middleware.
func EventsRoutes(api fiber.Router, h *handlers.EventsHandler) {
	api.Use("/ws", h.Upgrade)
	api.Get("/ws", websocket.New(h.ServeWs))
}
