package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/24BytesCo/workitem-service/internal/api/dto"
	"github.com/24BytesCo/workitem-service/internal/service"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// UsersHandler serves account listing and removal for privileged roles.
type UsersHandler struct {
	service *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{service: authService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, pageSize := parsePaging(c)
	users, total, err := h.service.ListUsers(c.Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKList("users retrieved", dto.NewUserResponses(users), total))
}

// Search GET /users/search?query=...
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	page, pageSize := parsePaging(c)
	users, total, err := h.service.SearchUsers(c.Context(), c.Query("query"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKList("users retrieved", dto.NewUserResponses(users), total))
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.service.UpdateUser(c.Context(), c.Params("id"), service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		RoleID:    req.RoleID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("user updated", dto.NewUserResponse(*account)))
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("user deleted", nil))
}
