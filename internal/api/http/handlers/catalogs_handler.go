package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/24BytesCo/workitem-service/internal/api/dto"
	"github.com/24BytesCo/workitem-service/internal/service"
)

// CatalogsHandler serves the role and status catalogs.
type CatalogsHandler struct {
	service *service.CatalogService
}

// NewCatalogsHandler constructs handler.
func NewCatalogsHandler(catalogService *service.CatalogService) *CatalogsHandler {
	return &CatalogsHandler{service: catalogService}
}

// Roles GET /roles.
func (h *CatalogsHandler) Roles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, dto.NewRoleResponse(role))
	}
	return c.JSON(dto.OKList("roles retrieved", out, len(out)))
}

// Statuses GET /work-item-statuses.
func (h *CatalogsHandler) Statuses(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, dto.NewStatusResponse(status))
	}
	return c.JSON(dto.OKList("statuses retrieved", out, len(out)))
}
