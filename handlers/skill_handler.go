package handlers

import (
	"context"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type skillService interface {
	Categories(ctx context.Context) ([]string, error)
	Popular(ctx context.Context) ([]services.PopularSkill, error)
	ByCategory(ctx context.Context, category string) ([]services.SkillListing, error)
	Search(ctx context.Context, q services.SkillQuery) ([]services.SkillListing, error)
	AddOffered(ctx context.Context, userID uuid.UUID, input services.OfferedSkillInput) ([]models.OfferedSkill, error)
	RemoveOffered(ctx context.Context, userID, skillID uuid.UUID) ([]models.OfferedSkill, error)
	AddWanted(ctx context.Context, userID uuid.UUID, input services.WantedSkillInput) ([]models.WantedSkill, error)
	RemoveWanted(ctx context.Context, userID, skillID uuid.UUID) ([]models.WantedSkill, error)
	Verify(ctx context.Context, userID, skillID uuid.UUID) (*models.OfferedSkill, error)
}

type SkillHandler struct {
	skills skillService
}

func NewSkillHandler(skills skillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

type OfferedSkillRequest struct {
	Skill      string `json:"skill" validate:"required,max=100"`
	Category   string `json:"category" validate:"required,max=100"`
	Experience int    `json:"experience" validate:"omitempty,min=0,max=80"`
	Level      string `json:"level" validate:"omitempty,oneof=basic intermediate expert"`
}

type WantedSkillRequest struct {
	Skill    string `json:"skill" validate:"required,max=100"`
	Category string `json:"category" validate:"max=100"`
}

func (h *SkillHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.skills.Categories(c.Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(categories)
}

func (h *SkillHandler) GetPopular(c *fiber.Ctx) error {
	popular, err := h.skills.Popular(c.Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(popular)
}

func (h *SkillHandler) GetByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	listings, err := h.skills.ByCategory(c.Context(), category)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(listings)
}

func (h *SkillHandler) Search(c *fiber.Ctx) error {
	level := c.Query("level")
	switch models.SkillLevel(level) {
	case "", models.LevelBasic, models.LevelIntermediate, models.LevelExpert:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "level must be basic, intermediate or expert")
	}

	listings, err := h.skills.Search(c.Context(), services.SkillQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
		Level:    models.SkillLevel(level),
		Location: c.Query("location"),
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(listings)
}

func (h *SkillHandler) AddOffered(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	var req OfferedSkillRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	skills, err := h.skills.AddOffered(c.Context(), userID, services.OfferedSkillInput{
		Skill:      req.Skill,
		Category:   req.Category,
		Experience: req.Experience,
		Level:      models.SkillLevel(req.Level),
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(skills)
}

func (h *SkillHandler) RemoveOffered(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	skillID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	skills, err := h.skills.RemoveOffered(c.Context(), userID, skillID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(skills)
}

func (h *SkillHandler) AddWanted(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	var req WantedSkillRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	skills, err := h.skills.AddWanted(c.Context(), userID, services.WantedSkillInput{
		Skill:    req.Skill,
		Category: req.Category,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(skills)
}

func (h *SkillHandler) RemoveWanted(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	skillID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	skills, err := h.skills.RemoveWanted(c.Context(), userID, skillID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(skills)
}

func (h *SkillHandler) Verify(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	skillID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	skill, err := h.skills.Verify(c.Context(), userID, skillID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"message": "Skill verified successfully",
		"skill":   skill,
	})
}
