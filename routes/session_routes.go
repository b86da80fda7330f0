package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(api fiber.Router, protected fiber.Handler, h *handlers.SessionHandler) {
	sessions := api.Group("/sessions", protected)
	sessions.Get("/active", h.GetActive)
	sessions.Get("/upcoming", h.GetUpcoming)
	sessions.Get("/history", h.GetHistory)
	sessions.Get("/stats/overview", h.GetStats)

	sessions.Get("/:id", h.GetSession)
	sessions.Post("/:id/start", h.StartSession)
	sessions.Post("/:id/end", h.EndSession)
	sessions.Post("/:id/notes", h.AddNotes)
	sessions.Post("/:id/review", h.SubmitReview)
	sessions.Get("/:id/reviews", h.GetReviews)
}
