package handlers

import (
	"context"
	"time"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type bookingService interface {
	Create(ctx context.Context, learnerID uuid.UUID, input services.CreateBookingInput) (*models.Booking, error)
	ListMine(ctx context.Context, callerID uuid.UUID, scope services.BookingScope) ([]models.Booking, error)
	SetStatus(ctx context.Context, bookingID, callerID uuid.UUID, status models.BookingStatus, meetingLink string) (*models.Booking, error)
	SetLink(ctx context.Context, bookingID, callerID uuid.UUID, link string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error)
	Start(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error)
	End(ctx context.Context, bookingID, callerID uuid.UUID, actualDuration *int) (*models.Booking, error)
}

type legacyReviewer interface {
	SubmitLegacyReview(ctx context.Context, bookingID, callerID uuid.UUID, input services.ReviewInput) (*models.Review, error)
}

type BookingHandler struct {
	bookings bookingService
	reviews  legacyReviewer
}

func NewBookingHandler(bookings bookingService, reviews legacyReviewer) *BookingHandler {
	return &BookingHandler{bookings: bookings, reviews: reviews}
}

type CreateBookingRequest struct {
	TeacherID     string    `json:"teacher_id" validate:"required,uuid"`
	Skill         string    `json:"skill" validate:"required,max=100"`
	Category      string    `json:"category" validate:"required,max=100"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Duration      int       `json:"duration" validate:"omitempty,min=1,max=720"`
	Message       string    `json:"message" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=pending accepted rejected completed cancelled"`
	MeetingLink string `json:"meeting_link" validate:"max=255"`
}

type UpdateLinkRequest struct {
	MeetingLink string `json:"meeting_link" validate:"required,max=255"`
}

type LegacyReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	learnerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}

	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	teacherID, _ := uuid.Parse(req.TeacherID)

	booking, err := h.bookings.Create(c.Context(), learnerID, services.CreateBookingInput{
		TeacherID:     teacherID,
		Skill:         req.Skill,
		Category:      req.Category,
		ScheduledDate: req.ScheduledDate,
		Duration:      req.Duration,
		Message:       req.Message,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	scope, err := scopeQuery(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListMine(c.Context(), callerID, scope)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.SetStatus(c.Context(), bookingID, callerID, models.BookingStatus(req.Status), req.MeetingLink)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) UpdateLink(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateLinkRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.SetLink(c.Context(), bookingID, callerID, req.MeetingLink)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) MarkBookingAsComplete(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	bookingID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookings.Complete(c.Context(), bookingID, callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"message": "Session marked as complete",
		"booking": booking,
	})
}

// CreateReview serves the older review route that takes the booking id in the body.
func (h *BookingHandler) CreateReview(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}

	var req LegacyReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	review, err := h.reviews.SubmitLegacyReview(c.Context(), bookingID, callerID, services.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func scopeQuery(c *fiber.Ctx) (services.BookingScope, error) {
	switch scope := services.BookingScope(c.Query("type")); scope {
	case services.ScopeTeaching, services.ScopeLearning, services.ScopeAll:
		return scope, nil
	case "all":
		return services.ScopeAll, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "type must be teaching, learning or all")
}
