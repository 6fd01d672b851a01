package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/24BytesCo/workitem-service/internal/domain"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

// RequireRole ensures the principal carries one of the allowed role codes.
// With no arguments it only requires authentication.
func RequireRole(allowed ...domain.RoleCode) fiber.Handler {
	allowedSet := make(map[domain.RoleCode]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
