package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/24BytesCo/workitem-service/internal/domain"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

type testEnv struct {
	service  *WorkItemService
	items    *fakeWorkItemRepo
	users    *fakeUserRepo
	statuses *fakeStatusRepo

	admin Actor
	supv  Actor
	emp   Actor
	emp2  Actor

	pending    domain.WorkItemStatus
	inProgress domain.WorkItemStatus
	completed  domain.WorkItemStatus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	roles := &fakeRoleRepo{roles: []domain.Role{
		{ID: uuid.NewString(), Name: "Administrator", Code: domain.RoleAdmin},
		{ID: uuid.NewString(), Name: "Supervisor", Code: domain.RoleSupervisor},
		{ID: uuid.NewString(), Name: "Employee", Code: domain.RoleEmployee},
	}}
	statuses := &fakeStatusRepo{statuses: []domain.WorkItemStatus{
		{ID: uuid.NewString(), Name: "Pending", Code: domain.StatusPending},
		{ID: uuid.NewString(), Name: "In Progress", Code: domain.StatusInProgress},
		{ID: uuid.NewString(), Name: "Completed", Code: domain.StatusCompleted},
	}}
	users := &fakeUserRepo{}
	items := &fakeWorkItemRepo{users: users}

	env := &testEnv{
		items:      items,
		users:      users,
		statuses:   statuses,
		pending:    statuses.statuses[0],
		inProgress: statuses.statuses[1],
		completed:  statuses.statuses[2],
	}

	addUser := func(first, last string, roleIdx int) domain.User {
		user := domain.User{
			ID:        uuid.NewString(),
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s@example.com", first, last),
			RoleID:    roles.roles[roleIdx].ID,
		}
		users.users = append(users.users, user)
		return user
	}
	admin := addUser("Ada", "Admin", 0)
	supv := addUser("Sam", "Supervisor", 1)
	emp := addUser("Eva", "Employee", 2)
	emp2 := addUser("Omar", "Employee", 2)

	env.admin = Actor{ID: admin.ID, Role: domain.RoleAdmin}
	env.supv = Actor{ID: supv.ID, Role: domain.RoleSupervisor}
	env.emp = Actor{ID: emp.ID, Role: domain.RoleEmployee}
	env.emp2 = Actor{ID: emp2.ID, Role: domain.RoleEmployee}

	env.service = NewWorkItemService(WorkItemDependencies{
		WorkItemRepo: items,
		UserRepo:     users,
		RoleRepo:     roles,
		StatusRepo:   statuses,
	})
	return env
}

func (e *testEnv) createItem(t *testing.T, title string, assignee Actor) *WorkItemDetail {
	t.Helper()
	detail, err := e.service.Create(context.Background(), e.admin, CreateInput{
		Title:       title,
		Description: "original description",
		AssigneeID:  assignee.ID,
	})
	require.NoError(t, err)
	return detail
}

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code, "unexpected error code: %v", err)
	return domainErr
}

func TestCreateForcesPendingStatus(t *testing.T) {
	env := newTestEnv(t)

	detail := env.createItem(t, "Prepare onboarding", env.emp)

	assert.Equal(t, env.pending.ID, detail.Item.StatusID)
	assert.Equal(t, domain.StatusPending, detail.Status.Code)
	assert.Equal(t, env.admin.ID, detail.Item.CreatedByUserID)
	assert.Equal(t, env.emp.ID, detail.Assignee.ID)
}

func TestCreateRejectsUnknownAssignee(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Create(context.Background(), env.admin, CreateInput{
		Title:      "Orphan",
		AssigneeID: uuid.NewString(),
	})
	requireCode(t, err, "NOT_FOUND")
}

func TestCreateRequiresTitleAndAssignee(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Create(context.Background(), env.admin, CreateInput{AssigneeID: env.emp.ID})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = env.service.Create(context.Background(), env.admin, CreateInput{Title: "No assignee"})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestFullUpdateLeavesDescriptionUnchanged(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Initial title", env.emp)

	updated, err := env.service.Transition(context.Background(), env.supv, TransitionRequest{
		Kind:       TransitionFullUpdate,
		ItemID:     detail.Item.ID,
		Title:      "Renamed",
		AssigneeID: env.emp2.ID,
		StatusID:   env.inProgress.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Item.Title)
	assert.Equal(t, env.emp2.ID, updated.Item.AssignedUserID)
	assert.Equal(t, env.inProgress.ID, updated.Item.StatusID)
	assert.Equal(t, "original description", updated.Item.Description)
}

func TestFullUpdateDeniedForEmployee(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Locked", env.emp)

	_, err := env.service.Transition(context.Background(), env.emp, TransitionRequest{
		Kind:       TransitionFullUpdate,
		ItemID:     detail.Item.ID,
		Title:      "Hijacked",
		AssigneeID: env.emp.ID,
		StatusID:   env.completed.ID,
	})
	requireCode(t, err, "FORBIDDEN")
}

func TestReassignAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Handover", env.emp)

	_, err := env.service.Transition(context.Background(), env.supv, TransitionRequest{
		Kind:       TransitionReassign,
		ItemID:     detail.Item.ID,
		AssigneeID: env.emp2.ID,
		StatusID:   env.inProgress.ID,
	})
	requireCode(t, err, "FORBIDDEN")

	updated, err := env.service.Transition(context.Background(), env.admin, TransitionRequest{
		Kind:       TransitionReassign,
		ItemID:     detail.Item.ID,
		AssigneeID: env.emp2.ID,
		StatusID:   env.inProgress.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, env.emp2.ID, updated.Item.AssignedUserID)
	assert.Equal(t, env.inProgress.ID, updated.Item.StatusID)
}

func TestReassignUnknownStatusLeavesItemUntouched(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Stable", env.emp)

	_, err := env.service.Transition(context.Background(), env.admin, TransitionRequest{
		Kind:       TransitionReassign,
		ItemID:     detail.Item.ID,
		AssigneeID: env.emp2.ID,
		StatusID:   uuid.NewString(),
	})
	requireCode(t, err, "NOT_FOUND")

	stored, err := env.items.GetByID(context.Background(), detail.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, env.emp.ID, stored.AssignedUserID)
	assert.Equal(t, env.pending.ID, stored.StatusID)
	assert.Equal(t, detail.Item.Version, stored.Version)
}

func TestSelfStatusTransition(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Mine", env.emp)

	updated, err := env.service.Transition(context.Background(), env.emp, TransitionRequest{
		Kind:     TransitionSelfStatus,
		ItemID:   detail.Item.ID,
		StatusID: env.inProgress.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, env.inProgress.ID, updated.Item.StatusID)

	_, err = env.service.Transition(context.Background(), env.emp2, TransitionRequest{
		Kind:     TransitionSelfStatus,
		ItemID:   detail.Item.ID,
		StatusID: env.completed.ID,
	})
	requireCode(t, err, "FORBIDDEN")

	// the narrow path is assignee-only even for privileged roles
	_, err = env.service.Transition(context.Background(), env.supv, TransitionRequest{
		Kind:     TransitionSelfStatus,
		ItemID:   detail.Item.ID,
		StatusID: env.completed.ID,
	})
	requireCode(t, err, "FORBIDDEN")
}

func TestTransitionRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Transition(context.Background(), env.admin, TransitionRequest{
		Kind:     TransitionSelfStatus,
		ItemID:   "not-a-uuid",
		StatusID: env.inProgress.ID,
	})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestTransitionRejectsBlankStatus(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Blank status", env.emp)

	_, err := env.service.Transition(context.Background(), env.emp, TransitionRequest{
		Kind:     TransitionSelfStatus,
		ItemID:   detail.Item.ID,
		StatusID: "  ",
	})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestConcurrentUpdateSurfacesRetryableConflict(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Contended", env.emp)

	req := TransitionRequest{
		Kind:       TransitionFullUpdate,
		ItemID:     detail.Item.ID,
		Title:      "Late write",
		AssigneeID: env.emp.ID,
		StatusID:   env.inProgress.ID,
	}

	env.items.conflictNext = true
	_, err := env.service.Transition(context.Background(), env.supv, req)
	domainErr := requireCode(t, err, "CONFLICT")
	assert.True(t, domainErr.Retryable)

	stored, err := env.items.GetByID(context.Background(), detail.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contended", stored.Title)

	// a retry after reload goes through
	_, err = env.service.Transition(context.Background(), env.supv, req)
	require.NoError(t, err)
}

func TestListAllRequiresPrivilegedRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.ListAll(context.Background(), env.emp, 1, 6)
	requireCode(t, err, "FORBIDDEN")

	_, err = env.service.ListAll(context.Background(), env.supv, 1, 6)
	require.NoError(t, err)
}

func TestListMineReturnsOnlyAssignedItems(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Mine A", env.emp)
	env.createItem(t, "Theirs", env.emp2)
	env.createItem(t, "Mine B", env.emp)

	page, err := env.service.ListMine(context.Background(), env.emp, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 2)
	for _, detail := range page.Items {
		assert.Equal(t, env.emp.ID, detail.Item.AssignedUserID)
	}
}

func TestPaginationReturnsPartialLastPage(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 10; i++ {
		env.createItem(t, fmt.Sprintf("Item %02d", i), env.emp)
	}

	page, err := env.service.ListAll(context.Background(), env.admin, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, 10, page.TotalCount)
	assert.Len(t, page.Items, 4)
	// ordering is stable on created_at then id, so page 2 starts at item 6
	assert.Equal(t, "Item 06", page.Items[0].Item.Title)
}

func TestPaginationNormalizesBadInputs(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		env.createItem(t, fmt.Sprintf("Item %d", i), env.emp)
	}

	page, err := env.service.ListAll(context.Background(), env.admin, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Len(t, page.Items, 3)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Search(context.Background(), env.admin, "   ", 1, 6)
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestSearchMatchesAssigneeFullName(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Quarterly report", env.emp)
	env.createItem(t, "Unrelated", env.emp2)

	page, err := env.service.Search(context.Background(), env.admin, "eva employee", 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Quarterly report", page.Items[0].Item.Title)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Replace HVAC filter", env.emp)

	page, err := env.service.Search(context.Background(), env.admin, "hvac", 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}

func TestEmployeeSearchIsScopedToOwnItems(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, "Shared keyword alpha", env.emp2)

	page, err := env.service.Search(context.Background(), env.emp, "alpha", 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestGetDeniedForNonAssignedEmployee(t *testing.T) {
	env := newTestEnv(t)
	detail := env.createItem(t, "Private", env.emp2)

	_, err := env.service.Get(context.Background(), env.emp, detail.Item.ID)
	requireCode(t, err, "FORBIDDEN")

	got, err := env.service.Get(context.Background(), env.emp2, detail.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, detail.Item.ID, got.Item.ID)
}

func TestDeletePolicy(t *testing.T) {
	env := newTestEnv(t)

	own := env.createItem(t, "Employee's own", env.emp)
	require.NoError(t, env.service.Delete(context.Background(), env.emp, own.Item.ID))

	other := env.createItem(t, "Someone else's", env.emp2)
	err := env.service.Delete(context.Background(), env.emp, other.Item.ID)
	requireCode(t, err, "FORBIDDEN")

	err = env.service.Delete(context.Background(), env.supv, other.Item.ID)
	requireCode(t, err, "FORBIDDEN")

	require.NoError(t, env.service.Delete(context.Background(), env.admin, other.Item.ID))
}

func TestGetAndDeleteRejectMalformedID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Get(context.Background(), env.admin, "not-a-uuid")
	requireCode(t, err, "VALIDATION_FAILED")

	err = env.service.Delete(context.Background(), env.admin, "not-a-uuid")
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestDeleteUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.Delete(context.Background(), env.admin, uuid.NewString())
	requireCode(t, err, "NOT_FOUND")
}
