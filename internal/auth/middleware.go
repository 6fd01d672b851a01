package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/24BytesCo/workitem-service/internal/domain"
	"github.com/24BytesCo/workitem-service/internal/repository"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: the resolved user record,
// their role code and the token carried by the request. Token id and expiry
// are kept so logout can revoke exactly this token.
type Principal struct {
	User         *domain.User
	Role         domain.RoleCode
	TokenID      string
	TokenExpires time.Time
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	users   repository.UserRepository
	revoked RevocationStore
}

// NewAuthMiddleware constructs middleware. The revocation store may be nil
// when logout support is disabled.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revoked RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, revoked: revoked}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	principal := &Principal{User: user, Role: claims.Role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		principal.TokenExpires = claims.ExpiresAt.Time
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
