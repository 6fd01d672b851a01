package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/policy"
	"github.com/24BytesCo/workitem-service/internal/repository"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// TransitionKind selects which mutation variant a request takes.
type TransitionKind int

const (
	// TransitionFullUpdate overwrites title, assignee and status
	// (admin/supervisor path).
	TransitionFullUpdate TransitionKind = iota
	// TransitionReassign overwrites assignee and status together
	// (admin only).
	TransitionReassign
	// TransitionSelfStatus overwrites status only, gated on ownership.
	TransitionSelfStatus
)

// TransitionRequest is the closed set of work-item mutations. Fields not
// used by a variant are ignored.
type TransitionRequest struct {
	Kind       TransitionKind
	ItemID     string
	Title      string
	AssigneeID string
	StatusID   string
}

type fieldSet struct {
	title    bool
	assignee bool
	status   bool
}

// transitionFields is the authoritative table of which fields each variant
// overwrites. Description never moves through a transition; in particular
// the full-update variant changes title but leaves description as stored.
var transitionFields = map[TransitionKind]fieldSet{
	TransitionFullUpdate: {title: true, assignee: true, status: true},
	TransitionReassign:   {assignee: true, status: true},
	TransitionSelfStatus: {status: true},
}

// transitionValidator checks every precondition of a mutation before it is
// handed to the store. Checks run in a fixed order and stop at the first
// failure: well-formed ids, item exists, assignee exists, status exists,
// then the role/ownership gate. It performs no writes.
type transitionValidator struct {
	items    repository.WorkItemRepository
	users    repository.UserRepository
	statuses repository.StatusRepository
}

// validate runs the precondition chain and returns the loaded item on
// success.
func (v *transitionValidator) validate(ctx context.Context, actor Actor, req TransitionRequest) (*domain.WorkItem, error) {
	fields, ok := transitionFields[req.Kind]
	if !ok {
		return nil, apperrors.NewValidationError("unknown transition kind", nil)
	}

	if uuid.Validate(req.ItemID) != nil {
		return nil, apperrors.NewValidationError("the provided work item id is invalid", nil)
	}
	if fields.title && strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("work item title is required", nil)
	}
	if fields.assignee && strings.TrimSpace(req.AssigneeID) == "" {
		return nil, apperrors.NewValidationError("the new assigned user id cannot be empty", nil)
	}
	if fields.status && strings.TrimSpace(req.StatusID) == "" {
		return nil, apperrors.NewValidationError("the new status id cannot be empty", nil)
	}

	item, err := v.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundMessage(
				fmt.Sprintf("no work item found with id %s", req.ItemID),
				map[string]any{"work_item_id": req.ItemID})
		}
		return nil, apperrors.MapError(err)
	}

	if fields.assignee {
		if _, err := v.users.GetByID(ctx, req.AssigneeID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFoundMessage(
					fmt.Sprintf("the user with id %s does not exist", req.AssigneeID),
					map[string]any{"user_id": req.AssigneeID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	if fields.status {
		if _, err := v.statuses.GetByID(ctx, req.StatusID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFoundMessage(
					fmt.Sprintf("the status with id %s does not exist", req.StatusID),
					map[string]any{"status_id": req.StatusID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	if err := v.gate(actor, req.Kind, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (v *transitionValidator) gate(actor Actor, kind TransitionKind, item *domain.WorkItem) error {
	switch kind {
	case TransitionFullUpdate:
		if !policy.CanFullUpdate(actor.Role) {
			return apperrors.NewForbidden("insufficient role to update work items")
		}
	case TransitionReassign:
		if !policy.CanAssignArbitrary(actor.Role) {
			return apperrors.NewForbidden("insufficient role to reassign work items")
		}
	case TransitionSelfStatus:
		if !policy.CanSelfTransition(actor.Role, item, actor.ID) {
			return apperrors.NewForbidden("you do not have permission to access this resource")
		}
	}
	return nil
}

// apply copies the requested values onto the item according to the variant
// field table.
func apply(item *domain.WorkItem, req TransitionRequest) {
	fields := transitionFields[req.Kind]
	if fields.title {
		item.Title = strings.TrimSpace(req.Title)
	}
	if fields.assignee {
		item.AssignedUserID = req.AssigneeID
	}
	if fields.status {
		item.StatusID = req.StatusID
	}
}
