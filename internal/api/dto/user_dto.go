package dto

import (
	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/service"
)

// RoleResponse is the catalog projection of a role.
type RoleResponse struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Code domain.RoleCode `json:"code"`
}

// UserResponse is the reduced account projection used in listings and
// embedded in work-item responses.
type UserResponse struct {
	ID       string       `json:"id"`
	FullName string       `json:"fullName"`
	Email    string       `json:"email"`
	Role     RoleResponse `json:"role"`
}

// NewRoleResponse maps a role.
func NewRoleResponse(role domain.Role) RoleResponse {
	return RoleResponse{ID: role.ID, Name: role.Name, Code: role.Code}
}

// NewUserResponse maps a user with its resolved role.
func NewUserResponse(uw service.UserWithRole) UserResponse {
	return UserResponse{
		ID:       uw.User.ID,
		FullName: uw.User.FullName(),
		Email:    uw.User.Email,
		Role:     NewRoleResponse(uw.Role),
	}
}

// NewUserResponses maps a page of users.
func NewUserResponses(users []service.UserWithRole) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, uw := range users {
		out = append(out, NewUserResponse(uw))
	}
	return out
}
