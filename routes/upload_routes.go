package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, protected fiber.Handler, h *handlers.MediaHandler) {
	api.Get("/uploads/signature", protected, h.GenerateUploadSignature)
	api.Get("/certificates/me", protected, h.GetMyCertificates)
	api.Post("/report", h.SendReport)
}
