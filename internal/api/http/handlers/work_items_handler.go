package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/24BytesCo/workitem-service/internal/api/dto"
	"github.com/24BytesCo/workitem-service/internal/auth"
	"github.com/24BytesCo/workitem-service/internal/service"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// WorkItemsHandler serves the work-item endpoints.
type WorkItemsHandler struct {
	service *service.WorkItemService
}

// NewWorkItemsHandler constructs handler.
func NewWorkItemsHandler(workItemService *service.WorkItemService) *WorkItemsHandler {
	return &WorkItemsHandler{service: workItemService}
}

// Create POST /work-items.
func (h *WorkItemsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateWorkItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	detail, err := h.service.Create(c.Context(), actor, service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssignedUserID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("work item created", dto.NewWorkItemResponse(*detail)))
}

// List GET /work-items. Route-gated to administrators and supervisors.
func (h *WorkItemsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	page, pageSize := parsePaging(c)
	result, err := h.service.ListAll(c.Context(), actor, page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKList("work items retrieved", dto.NewWorkItemResponses(result.Items), result.TotalCount))
}

// ListMine GET /work-items/mine.
func (h *WorkItemsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	page, pageSize := parsePaging(c)
	result, err := h.service.ListMine(c.Context(), actor, page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKList("work items retrieved", dto.NewWorkItemResponses(result.Items), result.TotalCount))
}

// Search GET /work-items/search?query=...
func (h *WorkItemsHandler) Search(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	page, pageSize := parsePaging(c)
	result, err := h.service.Search(c.Context(), actor, c.Query("query"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKList("work items retrieved", dto.NewWorkItemResponses(result.Items), result.TotalCount))
}

// Get GET /work-items/:id.
func (h *WorkItemsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("work item retrieved", dto.NewWorkItemResponse(*detail)))
}

// Update PUT /work-items/:id. Full update; description is never touched.
func (h *WorkItemsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateWorkItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	detail, err := h.service.Transition(c.Context(), actor, service.TransitionRequest{
		Kind:       service.TransitionFullUpdate,
		ItemID:     c.Params("id"),
		Title:      req.Title,
		AssigneeID: req.AssignedUserID,
		StatusID:   req.StatusID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("work item updated", dto.NewWorkItemResponse(*detail)))
}

// UpdateAssignment PATCH /work-items/:id/assignment. Administrator only.
func (h *WorkItemsHandler) UpdateAssignment(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	detail, err := h.service.Transition(c.Context(), actor, service.TransitionRequest{
		Kind:       service.TransitionReassign,
		ItemID:     c.Params("id"),
		AssigneeID: req.AssignedUserID,
		StatusID:   req.StatusID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("work item reassigned", dto.NewWorkItemResponse(*detail)))
}

// UpdateMyStatus PATCH /work-items/:id/status.
func (h *WorkItemsHandler) UpdateMyStatus(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	detail, err := h.service.Transition(c.Context(), actor, service.TransitionRequest{
		Kind:     service.TransitionSelfStatus,
		ItemID:   c.Params("id"),
		StatusID: req.StatusID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("work item status updated", dto.NewWorkItemResponse(*detail)))
}

// Delete DELETE /work-items/:id.
func (h *WorkItemsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("work item deleted", nil))
}

func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{ID: principal.User.ID, Role: principal.Role}, nil
}

func parsePaging(c *fiber.Ctx) (page, pageSize int) {
	return parseInt(c.Query("page"), 1), parseInt(c.Query("pageSize"), 6)
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
