package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/24BytesCo/workitem-service/internal/api/dto"
	"github.com/24BytesCo/workitem-service/internal/auth"
	"github.com/24BytesCo/workitem-service/internal/service"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// AuthHandler serves login, logout, profile and registration endpoints.
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
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	account, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("login successful", dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(*account),
	}))
}

// Logout POST /auth/logout. Revokes the presented token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Logout(c.Context(), principal.TokenID, principal.TokenExpires); err != nil {
		return err
	}
	return c.JSON(dto.OK("logout successful", nil))
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	account, err := h.service.Profile(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("profile retrieved", dto.NewUserResponse(*account)))
}

// Register POST /auth/register. Route-gated to administrators.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.service.Register(c.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    req.RoleID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("user registered", dto.NewUserResponse(*account)))
}
