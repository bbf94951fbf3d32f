package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// RequireAdmin ensures the authenticated principal carries the admin role.
// A valid token with an insufficient role is a 403, never a 401.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
