package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/events"
	"github.com/24BytesCo/workitem-service/internal/policy"
	"github.com/24BytesCo/workitem-service/internal/repository"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// Actor identifies the caller of every operation. Callers always pass it
// explicitly; nothing is read from ambient state.
type Actor struct {
	ID   string
	Role domain.RoleCode
}

// WorkItemService coordinates work-item workflows: creation, role-scoped
// listing and search, the three transition variants, and deletion.
type WorkItemService struct {
	items      repository.WorkItemRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	statuses   repository.StatusRepository
	validator  *transitionValidator
	dispatcher events.Dispatcher
}

// WorkItemDependencies bundles repositories for the service.
type WorkItemDependencies struct {
	WorkItemRepo repository.WorkItemRepository
	UserRepo     repository.UserRepository
	RoleRepo     repository.RoleRepository
	StatusRepo   repository.StatusRepository
	Dispatcher   events.Dispatcher
}

// CreateInput describes work-item creation payload. Status is not part of
// the input: new items always start Pending.
type CreateInput struct {
	Title       string
	Description string
	AssigneeID  string
}

// WorkItemDetail is a work item hydrated with its referenced records for
// response rendering.
type WorkItemDetail struct {
	Item          domain.WorkItem
	Assignee      *domain.User
	AssigneeRole  *domain.Role
	CreatedBy     *domain.User
	CreatedByRole *domain.Role
	Status        *domain.WorkItemStatus
}

// Page holds one page of hydrated items plus the total count of the scoped
// set before pagination.
type Page struct {
	Items      []WorkItemDetail
	TotalCount int
}

// NewWorkItemService constructs the service.
func NewWorkItemService(deps WorkItemDependencies) *WorkItemService {
	return &WorkItemService{
		items:    deps.WorkItemRepo,
		users:    deps.UserRepo,
		roles:    deps.RoleRepo,
		statuses: deps.StatusRepo,
		validator: &transitionValidator{
			items:    deps.WorkItemRepo,
			users:    deps.UserRepo,
			statuses: deps.StatusRepo,
		},
		dispatcher: deps.Dispatcher,
	}
}

// Create inserts a new work item. The status is forced to Pending no matter
// what the caller supplied, the creator is the actor, and the assignee must
// reference an existing user.
func (s *WorkItemService) Create(ctx context.Context, actor Actor, input CreateInput) (*WorkItemDetail, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("work item title is required", nil)
	}
	if strings.TrimSpace(input.AssigneeID) == "" {
		return nil, apperrors.NewValidationError("assigned user id is required", nil)
	}

	pending, err := s.statuses.GetByCode(ctx, domain.StatusPending)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("pending status", nil)
		}
		return nil, apperrors.MapError(err)
	}

	assignee, err := s.users.GetByID(ctx, input.AssigneeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundMessage(
				fmt.Sprintf("the user with id %s does not exist", input.AssigneeID),
				map[string]any{"user_id": input.AssigneeID})
		}
		return nil, apperrors.MapError(err)
	}

	item := &domain.WorkItem{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		AssignedUserID:  assignee.ID,
		CreatedByUserID: actor.ID,
		StatusID:        pending.ID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventWorkItemCreated,
		WorkItemID: item.ID,
		ActorID:    actor.ID,
		Payload: events.WorkItemCreatedPayload{
			Title:          item.Title,
			AssignedUserID: item.AssignedUserID,
			StatusID:       item.StatusID,
		},
	})
	return s.hydrateOne(ctx, item)
}

// ListAll returns one unscoped page; only admins and supervisors may call it.
func (s *WorkItemService) ListAll(ctx context.Context, actor Actor, page, pageSize int) (*Page, error) {
	if !policy.CanListAll(actor.Role) {
		return nil, apperrors.NewForbidden("insufficient role to list all work items")
	}
	return s.list(ctx, policy.Scope{}, nil, page, pageSize)
}

// ListMine returns the page of items assigned to the actor, for any role.
func (s *WorkItemService) ListMine(ctx context.Context, actor Actor, page, pageSize int) (*Page, error) {
	callerID := actor.ID
	return s.list(ctx, policy.Scope{AssignedUserID: &callerID}, nil, page, pageSize)
}

// Search applies the actor's list scope plus a substring match over title,
// description and assignee full name. A blank query is rejected rather than
// treated as match-all.
func (s *WorkItemService) Search(ctx context.Context, actor Actor, query string, page, pageSize int) (*Page, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("search query cannot be empty", nil)
	}
	scope := policy.ScopeForList(actor.Role, actor.ID)
	return s.list(ctx, scope, &query, page, pageSize)
}

// Get loads a single item. Employees may only see items assigned to them.
func (s *WorkItemService) Get(ctx context.Context, actor Actor, id string) (*WorkItemDetail, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := policy.ScopeForList(actor.Role, actor.ID)
	if !scope.Unrestricted() && item.AssignedUserID != actor.ID {
		return nil, apperrors.NewForbidden("you do not have permission to access this resource")
	}
	return s.hydrateOne(ctx, item)
}

// Transition validates and applies one mutation variant. Validation is
// fully separated from persistence: the store is touched only after every
// check passes, and a concurrent-write conflict surfaces as a retryable
// conflict rather than a validation failure.
func (s *WorkItemService) Transition(ctx context.Context, actor Actor, req TransitionRequest) (*WorkItemDetail, error) {
	item, err := s.validator.validate(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	oldStatus := item.StatusID
	oldAssignee := item.AssignedUserID
	apply(item, req)

	if err := s.items.Update(ctx, item); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, apperrors.NewConflict(
				"the work item was modified by another process; reload and try again",
				map[string]any{"work_item_id": item.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishTransition(ctx, actor, req.Kind, item, oldStatus, oldAssignee)
	return s.hydrateOne(ctx, item)
}

// Delete removes an item. Employees may delete only items assigned to them;
// admins may delete any; supervisors are denied.
func (s *WorkItemService) Delete(ctx context.Context, actor Actor, id string) error {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(actor.Role, item, actor.ID) {
		return apperrors.NewForbidden("you do not have permission to access this resource")
	}
	if err := s.items.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFoundMessage(
				fmt.Sprintf("no work item found with id %s", id),
				map[string]any{"work_item_id": id})
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventWorkItemDeleted,
		WorkItemID: item.ID,
		ActorID:    actor.ID,
		Payload:    events.WorkItemDeletedPayload{Title: item.Title},
	})
	return nil
}

// getItem loads one item, rejecting ids that are not well-formed before the
// store sees them so a bad id can never surface as a store failure.
func (s *WorkItemService) getItem(ctx context.Context, id string) (*domain.WorkItem, error) {
	if uuid.Validate(id) != nil {
		return nil, apperrors.NewValidationError("the provided work item id is invalid", nil)
	}
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFoundMessage(
				fmt.Sprintf("no work item found with id %s", id),
				map[string]any{"work_item_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *WorkItemService) list(ctx context.Context, scope policy.Scope, search *string, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	filter := repository.WorkItemFilter{
		AssignedUserID: scope.AssignedUserID,
		SearchTerm:     search,
		Limit:          pageSize,
		Offset:         (page - 1) * pageSize,
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	details, err := s.hydrate(ctx, items)
	if err != nil {
		return nil, err
	}
	return &Page{Items: details, TotalCount: total}, nil
}

const defaultPageSize = 6

// hydrate resolves assignee, creator, role and status for each item,
// memoizing lookups so a page issues at most one query per distinct id.
func (s *WorkItemService) hydrate(ctx context.Context, items []domain.WorkItem) ([]WorkItemDetail, error) {
	userCache := map[string]*domain.User{}
	roleCache := map[string]*domain.Role{}
	statusCache := map[string]*domain.WorkItemStatus{}

	lookupUser := func(id string) (*domain.User, error) {
		if user, ok := userCache[id]; ok {
			return user, nil
		}
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		userCache[id] = user
		return user, nil
	}

	lookupRole := func(id string) (*domain.Role, error) {
		if role, ok := roleCache[id]; ok {
			return role, nil
		}
		role, err := s.roles.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		roleCache[id] = role
		return role, nil
	}

	details := make([]WorkItemDetail, 0, len(items))
	for _, item := range items {
		assignee, err := lookupUser(item.AssignedUserID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		creator, err := lookupUser(item.CreatedByUserID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}

		assigneeRole, err := lookupRole(assignee.RoleID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		creatorRole, err := lookupRole(creator.RoleID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}

		status, ok := statusCache[item.StatusID]
		if !ok {
			status, err = s.statuses.GetByID(ctx, item.StatusID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			statusCache[item.StatusID] = status
		}

		details = append(details, WorkItemDetail{
			Item:          item,
			Assignee:      assignee,
			AssigneeRole:  assigneeRole,
			CreatedBy:     creator,
			CreatedByRole: creatorRole,
			Status:        status,
		})
	}
	return details, nil
}

func (s *WorkItemService) hydrateOne(ctx context.Context, item *domain.WorkItem) (*WorkItemDetail, error) {
	details, err := s.hydrate(ctx, []domain.WorkItem{*item})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *WorkItemService) publishTransition(ctx context.Context, actor Actor, kind TransitionKind, item *domain.WorkItem, oldStatus, oldAssignee string) {
	switch kind {
	case TransitionFullUpdate:
		s.publish(ctx, events.Event{
			Type:       events.EventWorkItemUpdated,
			WorkItemID: item.ID,
			ActorID:    actor.ID,
			Payload: events.WorkItemUpdatedPayload{
				Title:          item.Title,
				AssignedUserID: item.AssignedUserID,
				StatusID:       item.StatusID,
			},
		})
	case TransitionReassign:
		s.publish(ctx, events.Event{
			Type:       events.EventWorkItemReassigned,
			WorkItemID: item.ID,
			ActorID:    actor.ID,
			Payload: events.WorkItemReassignedPayload{
				OldAssignedUserID: oldAssignee,
				NewAssignedUserID: item.AssignedUserID,
				NewStatusID:       item.StatusID,
			},
		})
	case TransitionSelfStatus:
		s.publish(ctx, events.Event{
			Type:       events.EventWorkItemStatusChanged,
			WorkItemID: item.ID,
			ActorID:    actor.ID,
			Payload: events.WorkItemStatusChangedPayload{
				OldStatusID: oldStatus,
				NewStatusID: item.StatusID,
			},
		})
	}
}

func (s *WorkItemService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
