package handlers

import (
	"context"
	"strconv"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type sessionService interface {
	ListActive(ctx context.Context, callerID uuid.UUID) ([]models.Booking, error)
	ListUpcoming(ctx context.Context, callerID uuid.UUID) ([]models.Booking, error)
	ListHistory(ctx context.Context, callerID uuid.UUID, filter services.HistoryFilter) ([]models.Booking, int64, services.HistoryFilter, error)
	Get(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error)
	AddNotes(ctx context.Context, bookingID, callerID uuid.UUID, notes string) (*models.Booking, error)
	SubmitReview(ctx context.Context, bookingID, callerID uuid.UUID, input services.ReviewInput) (*models.Review, error)
	ListReviews(ctx context.Context, bookingID, callerID uuid.UUID) ([]models.Review, error)
	Stats(ctx context.Context, callerID uuid.UUID) (*services.SessionStats, error)
}

type SessionHandler struct {
	sessions sessionService
	bookings bookingService
}

func NewSessionHandler(sessions sessionService, bookings bookingService) *SessionHandler {
	return &SessionHandler{sessions: sessions, bookings: bookings}
}

type EndSessionRequest struct {
	ActualDuration *int `json:"actual_duration" validate:"omitempty,min=1,max=720"`
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"required,max=5000"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func buildPaginationMeta(page, limit int, total int64) PaginationMeta {
	var totalPages int64
	if total > 0 && limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return PaginationMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func (h *SessionHandler) GetActive(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	sessions, err := h.sessions.ListActive(c.Context(), callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) GetUpcoming(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	sessions, err := h.sessions.ListUpcoming(c.Context(), callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) GetHistory(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	scope, err := scopeQuery(c)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	sessions, total, filter, err := h.sessions.ListHistory(c.Context(), callerID, services.HistoryFilter{
		Scope: scope,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"sessions":   sessions,
		"pagination": buildPaginationMeta(filter.Page, filter.Limit, total),
	})
}

func (h *SessionHandler) GetStats(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	stats, err := h.sessions.Stats(c.Context(), callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(stats)
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	callerID, bookingID, err := callerAndBooking(c)
	if err != nil {
		return err
	}
	session, err := h.sessions.Get(c.Context(), bookingID, callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	callerID, bookingID, err := callerAndBooking(c)
	if err != nil {
		return err
	}
	session, err := h.bookings.Start(c.Context(), bookingID, callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"meeting_link": session.MeetingLink,
		"booking":      session,
	})
}

func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	callerID, bookingID, err := callerAndBooking(c)
	if err != nil {
		return err
	}

	var req EndSessionRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	session, err := h.bookings.End(c.Context(), bookingID, callerID, req.ActualDuration)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"message":       "Session ended successfully",
		"points_earned": session.PointsEarned,
		"booking":       session,
	})
}

func (h *SessionHandler) AddNotes(c *fiber.Ctx) error {
	callerID, bookingID, err := callerAndBooking(c)
	if err != nil {
		return err
	}
	var req NotesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.sessions.AddNotes(c.Context(), bookingID, callerID, req.Notes)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) SubmitReview(c *fiber.Ctx) error {
	callerID, bookingID, err := callerAndBooking(c)
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	review, err := h.sessions.SubmitReview(c.Context(), bookingID, callerID, services.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *SessionHandler) GetReviews(c *fiber.Ctx) error {
	callerID, bookingID, err := callerAndBooking(c)
	if err != nil {
		return err
	}
	reviews, err := h.sessions.ListReviews(c.Context(), bookingID, callerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(reviews)
}

func callerAndBooking(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	bookingID, err := uuidParam(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return callerID, bookingID, nil
}
