package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(api fiber.Router, protected fiber.Handler, h *handlers.ProfileHandler) {
	users := api.Group("/users", protected)
	users.Get("/profile", h.GetProfile)
	users.Put("/profile", h.UpdateProfile)
	users.Get("/search", h.SearchUsers)
	users.Get("/leaderboard", h.GetLeaderboard)
	users.Get("/:id", h.GetUser)
}
