package handlers

import (
	"context"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type authService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
}

type welcomeMailer interface {
	SendEmail(toName, toEmail, subject, htmlContent string) error
}

type AuthHandler struct {
	users  authService
	mailer welcomeMailer
}

func NewAuthHandler(users authService, mailer welcomeMailer) *AuthHandler {
	return &AuthHandler{users: users, mailer: mailer}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return serviceError(err)
	}

	if h.mailer != nil {
		go h.mailer.SendEmail(user.DisplayName(), user.Email, "Welcome to Skill Swap!",
			"<h1>Welcome!</h1><p>Complete your profile and list the skills you can teach to start swapping.</p>")
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        user.ID.String(),
		Name:      user.DisplayName(),
		Email:     user.Email,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	})
}

func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(session)
}
