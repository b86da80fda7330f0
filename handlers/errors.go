package handlers

import (
	"errors"
	"strings"

	"github.com/anjiri1684/skill_swap/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var validate = validator.New()

// ErrorHandler renders every failure as {"status":"error","code":..,"message":..}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}

// serviceError maps service sentinels onto HTTP errors. Anything unrecognised is logged
// and hidden behind a 500.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, capitalize(err.Error()))
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, services.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, capitalize(err.Error()))
	}

	log.Errorf("🔥 Unhandled service error: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
