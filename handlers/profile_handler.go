package handlers

import (
	"context"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type profileService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update services.ProfileUpdate) (*models.User, error)
	Search(ctx context.Context, callerID uuid.UUID, q services.UserQuery) ([]models.User, error)
	Leaderboard(ctx context.Context) ([]models.User, error)
}

type ProfileHandler struct {
	users profileService
}

func NewProfileHandler(users profileService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

type UpdateProfileRequest struct {
	Name         *string                  `json:"name" validate:"omitempty,min=1,max=255"`
	Age          *int                     `json:"age" validate:"omitempty,min=1,max=120"`
	Gender       *string                  `json:"gender" validate:"omitempty,oneof=male female other"`
	Location     *string                  `json:"location" validate:"omitempty,max=255"`
	Bio          *string                  `json:"bio" validate:"omitempty,max=2000"`
	Avatar       *string                  `json:"avatar" validate:"omitempty,url"`
	Availability []models.DayAvailability `json:"availability" validate:"omitempty,dive"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	update := services.ProfileUpdate{
		Name:         req.Name,
		Age:          req.Age,
		Location:     req.Location,
		Bio:          req.Bio,
		Avatar:       req.Avatar,
		Availability: req.Availability,
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		update.Gender = &gender
	}

	user, err := h.users.UpdateProfile(c.Context(), userID, update)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) SearchUsers(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	users, err := h.users.Search(c.Context(), callerID, services.UserQuery{
		Skill:    c.Query("skill"),
		Category: c.Query("category"),
		Location: c.Query("location"),
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(users)
}

func (h *ProfileHandler) GetLeaderboard(c *fiber.Ctx) error {
	users, err := h.users.Leaderboard(c.Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(users)
}

func (h *ProfileHandler) GetUser(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(user)
}
