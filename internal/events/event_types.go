package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWorkItemCreated       EventType = "work_item_created"
	EventWorkItemUpdated       EventType = "work_item_updated"
	EventWorkItemStatusChanged EventType = "work_item_status_changed"
	EventWorkItemReassigned    EventType = "work_item_reassigned"
	EventWorkItemDeleted       EventType = "work_item_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	WorkItemID string      `json:"work_item_id"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// WorkItemCreatedPayload payload.
type WorkItemCreatedPayload struct {
	Title          string `json:"title"`
	AssignedUserID string `json:"assigned_user_id"`
	StatusID       string `json:"status_id"`
}

// WorkItemUpdatedPayload payload.
type WorkItemUpdatedPayload struct {
	Title          string `json:"title"`
	AssignedUserID string `json:"assigned_user_id"`
	StatusID       string `json:"status_id"`
}

// WorkItemStatusChangedPayload payload.
type WorkItemStatusChangedPayload struct {
	OldStatusID string `json:"old_status_id"`
	NewStatusID string `json:"new_status_id"`
}

// WorkItemReassignedPayload payload.
type WorkItemReassignedPayload struct {
	OldAssignedUserID string `json:"old_assigned_user_id"`
	NewAssignedUserID string `json:"new_assigned_user_id"`
	NewStatusID       string `json:"new_status_id"`
}

// WorkItemDeletedPayload payload.
type WorkItemDeletedPayload struct {
	Title string `json:"title"`
}
