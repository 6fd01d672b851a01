package dto

import (
	"time"

	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/service"
)

// CreateWorkItemRequest payload. Status is not accepted: new items always
// start Pending.
type CreateWorkItemRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	AssignedUserID string `json:"assignedUserId"`
}

// UpdateWorkItemRequest is the full-update payload. Description is absent
// on purpose: full updates never touch it.
type UpdateWorkItemRequest struct {
	Title          string `json:"title"`
	AssignedUserID string `json:"assignedUserId"`
	StatusID       string `json:"statusId"`
}

// UpdateAssignmentRequest reassigns an item and sets its status.
type UpdateAssignmentRequest struct {
	AssignedUserID string `json:"assignedUserId"`
	StatusID       string `json:"statusId"`
}

// UpdateStatusRequest moves an item the caller works on to a new status.
type UpdateStatusRequest struct {
	StatusID string `json:"statusId"`
}

// PersonSummary embeds a user reference inside work-item responses.
type PersonSummary struct {
	ID       string       `json:"id"`
	FullName string       `json:"fullName"`
	Role     RoleResponse `json:"role"`
}

// StatusResponse is the catalog projection of a work-item status.
type StatusResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Code        domain.StatusCode `json:"code"`
	Description string            `json:"description,omitempty"`
}

// WorkItemResponse is the hydrated work-item projection.
type WorkItemResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Assignee    PersonSummary  `json:"assignedUser"`
	CreatedBy   PersonSummary  `json:"createdByUser"`
	Status      StatusResponse `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// NewStatusResponse maps a status.
func NewStatusResponse(status domain.WorkItemStatus) StatusResponse {
	return StatusResponse{
		ID:          status.ID,
		Name:        status.Name,
		Code:        status.Code,
		Description: status.Description,
	}
}

// NewWorkItemResponse maps a hydrated work item.
func NewWorkItemResponse(detail service.WorkItemDetail) WorkItemResponse {
	return WorkItemResponse{
		ID:          detail.Item.ID,
		Title:       detail.Item.Title,
		Description: detail.Item.Description,
		Assignee: PersonSummary{
			ID:       detail.Assignee.ID,
			FullName: detail.Assignee.FullName(),
			Role:     NewRoleResponse(*detail.AssigneeRole),
		},
		CreatedBy: PersonSummary{
			ID:       detail.CreatedBy.ID,
			FullName: detail.CreatedBy.FullName(),
			Role:     NewRoleResponse(*detail.CreatedByRole),
		},
		Status:    NewStatusResponse(*detail.Status),
		CreatedAt: detail.Item.CreatedAt,
		UpdatedAt: detail.Item.UpdatedAt,
	}
}

// NewWorkItemResponses maps one page of hydrated work items.
func NewWorkItemResponses(details []service.WorkItemDetail) []WorkItemResponse {
	out := make([]WorkItemResponse, 0, len(details))
	for _, detail := range details {
		out = append(out, NewWorkItemResponse(detail))
	}
	return out
}
