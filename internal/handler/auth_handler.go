package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return middleware.Conflict("Email already registered")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user,
		"message": "Registration successful, please verify your email",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, tokens, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return middleware.Unauthorized("Invalid email or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			return middleware.Forbidden("Account is disabled")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return middleware.BadRequest("refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Context(), body.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUserNotFound) {
			return middleware.Unauthorized("Invalid or expired refresh token")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return middleware.BadRequest("refresh_token is required")
	}

	if err := h.authService.Logout(c.Context(), body.RefreshToken); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	if err := h.authService.LogoutAll(c.Context(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return middleware.BadRequest("token is required")
	}

	if err := h.authService.VerifyEmail(c.Context(), token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return middleware.BadRequest("Invalid or expired verification token")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email verified"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
