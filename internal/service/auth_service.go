package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/24BytesCo/workitem-service/internal/auth"
	"github.com/24BytesCo/workitem-service/internal/config"
	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/repository"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// AuthService coordinates registration, login and account management.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationStore
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo        repository.UserRepository
	RoleRepo        repository.RoleRepository
	RevocationStore auth.RevocationStore
}

// RegisterInput describes an admin-created account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleID    string
}

// UserWithRole pairs a user with their resolved role for responses.
type UserWithRole struct {
	User domain.User
	Role domain.Role
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoked:    deps.RevocationStore,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new account with the given role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserWithRole, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("first name, last name, email and password are required", nil)
	}

	role, err := s.roles.GetByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage(
				fmt.Sprintf("the role with id %s does not exist", input.RoleID),
				map[string]any{"role_id": input.RoleID})
		}
		return nil, apperrors.MapError(err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &UserWithRole{User: *user, Role: *role}, nil
}

// Login authenticates an account and issues a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*UserWithRole, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, role.Code)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return &UserWithRole{User: *user, Role: *role}, token, exp, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoked == nil || tokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Profile resolves the caller's account and role.
func (s *AuthService) Profile(ctx context.Context, userID string) (*UserWithRole, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &UserWithRole{User: *user, Role: *role}, nil
}

// ListUsers returns one page of accounts with roles resolved.
func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int) ([]UserWithRole, int, error) {
	limit, offset := normalizePage(page, pageSize)
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	result, err := s.withRoles(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// SearchUsers pages accounts whose name or email contains the query. A blank
// query is rejected rather than treated as match-all.
func (s *AuthService) SearchUsers(ctx context.Context, query string, page, pageSize int) ([]UserWithRole, int, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, apperrors.NewValidationError("search query cannot be empty", nil)
	}
	limit, offset := normalizePage(page, pageSize)
	users, total, err := s.users.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	result, err := s.withRoles(ctx, users)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func normalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}

func (s *AuthService) withRoles(ctx context.Context, users []domain.User) ([]UserWithRole, error) {
	roleCache := map[string]*domain.Role{}
	result := make([]UserWithRole, 0, len(users))
	for _, user := range users {
		role, ok := roleCache[user.RoleID]
		if !ok {
			var err error
			role, err = s.roles.GetByID(ctx, user.RoleID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			roleCache[user.RoleID] = role
		}
		result = append(result, UserWithRole{User: user, Role: *role})
	}
	return result, nil
}

// UpdateUserInput carries the admin-editable account fields. Zero-valued
// fields keep their stored values.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	RoleID    string
}

// UpdateUser edits an account's identity fields and role.
func (s *AuthService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*UserWithRole, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage(
				fmt.Sprintf("no user found with id %s", id),
				map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.RoleID != "" {
		if _, err := s.roles.GetByID(ctx, input.RoleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFoundMessage(
					fmt.Sprintf("the role with id %s does not exist", input.RoleID),
					map[string]any{"role_id": input.RoleID})
			}
			return nil, apperrors.MapError(err)
		}
		user.RoleID = input.RoleID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &UserWithRole{User: *user, Role: *role}, nil
}

// DeleteUser removes an account by id.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundMessage(
				fmt.Sprintf("no user found with id %s", id),
				map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// EnsureSeedAdmin creates the bootstrap administrator when it does not
// exist yet. A blank seed password disables seeding.
func (s *AuthService) EnsureSeedAdmin(ctx context.Context, seed config.SeedConfig) error {
	if seed.AdminPassword == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, seed.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	adminRole, err := s.roles.GetByCode(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(seed.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &domain.User{
		FirstName:    seed.AdminFirstName,
		LastName:     seed.AdminLastName,
		Email:        seed.AdminEmail,
		PasswordHash: hash,
		RoleID:       adminRole.ID,
	})
}
