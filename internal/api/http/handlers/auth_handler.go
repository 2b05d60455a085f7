package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/buyer-leads-service/internal/api/dto"
	"github.com/spec-kit/buyer-leads-service/internal/service"
	apperrors "github.com/spec-kit/buyer-leads-service/pkg/util"
)

// AuthHandler manages the demo login endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Email, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.UserResponse{ID: user.ID, Email: user.Email},
	})
}

// Logout POST /auth/logout. Sessions are stateless tokens; the client just
// discards its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
