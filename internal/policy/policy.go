// Package policy is the single place role-based access decisions are made.
// Every function is pure: inputs are the caller's role, the caller id and
// the targeted work item, and the output is a decision. Anything not
// explicitly allowed here is denied.
package policy

import "github.com/24BytesCo/workitem-service/internal/domain"

// Scope restricts which work items a caller may see. A nil AssignedUserID
// means unrestricted.
type Scope struct {
	AssignedUserID *string
}

// Unrestricted reports whether the scope covers every work item.
func (s Scope) Unrestricted() bool {
	return s.AssignedUserID == nil
}

// CanListAll reports whether the role may list work items without an
// ownership scope.
func CanListAll(role domain.RoleCode) bool {
	return role == domain.RoleAdmin || role == domain.RoleSupervisor
}

// ScopeForList narrows listings to the caller's own items for employees;
// admins and supervisors see everything.
func ScopeForList(role domain.RoleCode, userID string) Scope {
	if role == domain.RoleEmployee {
		return Scope{AssignedUserID: &userID}
	}
	return Scope{}
}

// CanAssignArbitrary reports whether the role may assign a work item to any
// user, including changing assignee and status together.
func CanAssignArbitrary(role domain.RoleCode) bool {
	return role == domain.RoleAdmin
}

// CanFullUpdate reports whether the role may use the privileged update path
// (title, assignee and status).
func CanFullUpdate(role domain.RoleCode) bool {
	return role == domain.RoleAdmin || role == domain.RoleSupervisor
}

// CanDelete allows admins to delete any item and employees to delete only
// items assigned to them. Supervisors are not elevated for deletion.
func CanDelete(role domain.RoleCode, item *domain.WorkItem, callerID string) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleEmployee:
		return item != nil && item.AssignedUserID == callerID
	default:
		return false
	}
}

// CanSelfTransition gates the narrow status-only transition: the caller must
// be the item's current assignee, whatever their role. Privileged roles move
// other people's items through the wider update paths instead.
func CanSelfTransition(role domain.RoleCode, item *domain.WorkItem, callerID string) bool {
	return item != nil && item.AssignedUserID == callerID
}
