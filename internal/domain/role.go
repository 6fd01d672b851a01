package domain

// RoleCode enumerates the fixed role catalog codes.
type RoleCode string

const (
	RoleAdmin      RoleCode = "ADMIN"
	RoleSupervisor RoleCode = "SUPV"
	RoleEmployee   RoleCode = "EMP"
)

// Role is a catalog entry; every user references exactly one.
type Role struct {
	ID   string
	Name string
	Code RoleCode
}
