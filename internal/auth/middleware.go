package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/domain"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, built from verified claims.
type Principal struct {
	SubjectID string
	Email     string
	Role      domain.Role
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// AuthMiddleware admits or rejects requests based on bearer token validity.
// Admission is a pure signature/expiry check; the credential store is only
// consulted by the refresh and identity-confirmation flows.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs the guard.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. A missing header and a
// bad token surface the same generic 401 so callers cannot probe token
// structure or account existence.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, &Principal{
		SubjectID: claims.SubjectID(),
		Email:     claims.Email,
		Role:      claims.Role,
	})
	return c.Next()
}

// BearerToken extracts the token from an `Authorization: Bearer <token>`
// header. Anything else is malformed.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
