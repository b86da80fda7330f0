package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

// SkillRoutes keeps discovery public; list mutations need a token.
func SkillRoutes(api fiber.Router, protected fiber.Handler, h *handlers.SkillHandler) {
	skills := api.Group("/skills")
	skills.Get("/categories", h.GetCategories)
	skills.Get("/popular", h.GetPopular)
	skills.Get("/category/:category", h.GetByCategory)
	skills.Get("/search", h.Search)

	skills.Post("/add-offered", protected, h.AddOffered)
	skills.Delete("/remove-offered/:id", protected, h.RemoveOffered)
	skills.Post("/add-wanted", protected, h.AddWanted)
	skills.Delete("/remove-wanted/:id", protected, h.RemoveWanted)
	skills.Put("/verify/:id", protected, h.Verify)
}
