package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, protected fiber.Handler, h *handlers.BookingHandler) {
	booking := api.Group("/bookings", protected)
	booking.Post("", h.CreateBooking)
	booking.Get("/my-bookings", h.GetMyBookings)
	booking.Post("/reviews", h.CreateReview)
	booking.Put("/:id/status", h.UpdateStatus)
	booking.Put("/:id/link", h.UpdateLink)
	booking.Put("/:id/complete", h.MarkBookingAsComplete)
}
