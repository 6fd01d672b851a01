package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/24BytesCo/workitem-service/internal/domain"
)

func TestCanListAll(t *testing.T) {
	assert.True(t, CanListAll(domain.RoleAdmin))
	assert.True(t, CanListAll(domain.RoleSupervisor))
	assert.False(t, CanListAll(domain.RoleEmployee))
}

func TestScopeForList(t *testing.T) {
	scope := ScopeForList(domain.RoleEmployee, "user-1")
	require.NotNil(t, scope.AssignedUserID)
	assert.Equal(t, "user-1", *scope.AssignedUserID)
	assert.False(t, scope.Unrestricted())

	assert.True(t, ScopeForList(domain.RoleAdmin, "user-1").Unrestricted())
	assert.True(t, ScopeForList(domain.RoleSupervisor, "user-1").Unrestricted())
}

func TestCanFullUpdateAndAssign(t *testing.T) {
	assert.True(t, CanFullUpdate(domain.RoleAdmin))
	assert.True(t, CanFullUpdate(domain.RoleSupervisor))
	assert.False(t, CanFullUpdate(domain.RoleEmployee))

	assert.True(t, CanAssignArbitrary(domain.RoleAdmin))
	assert.False(t, CanAssignArbitrary(domain.RoleSupervisor))
	assert.False(t, CanAssignArbitrary(domain.RoleEmployee))
}

func TestCanDelete(t *testing.T) {
	item := &domain.WorkItem{ID: "item-1", AssignedUserID: "emp-1"}

	tests := []struct {
		name     string
		role     domain.RoleCode
		callerID string
		want     bool
	}{
		{"admin deletes any", domain.RoleAdmin, "someone-else", true},
		{"supervisor denied", domain.RoleSupervisor, "someone-else", false},
		{"employee deletes own", domain.RoleEmployee, "emp-1", true},
		{"employee denied for others", domain.RoleEmployee, "emp-2", false},
		{"unknown role denied", domain.RoleCode("GUEST"), "emp-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDelete(tt.role, item, tt.callerID))
		})
	}

	assert.False(t, CanDelete(domain.RoleEmployee, nil, "emp-1"))
}

func TestCanSelfTransition(t *testing.T) {
	item := &domain.WorkItem{ID: "item-1", AssignedUserID: "emp-1"}

	assert.True(t, CanSelfTransition(domain.RoleEmployee, item, "emp-1"))
	assert.True(t, CanSelfTransition(domain.RoleAdmin, item, "emp-1"))
	assert.False(t, CanSelfTransition(domain.RoleEmployee, item, "emp-2"))
	assert.False(t, CanSelfTransition(domain.RoleAdmin, item, "not-assigned"))
	assert.False(t, CanSelfTransition(domain.RoleSupervisor, item, "not-assigned"))
	assert.False(t, CanSelfTransition(domain.RoleEmployee, nil, "emp-1"))
}
