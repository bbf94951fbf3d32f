package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recupera/collections-service/internal/domain"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

func newTestApp(tm *TokenManager, adminOnly bool) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})
	middleware := NewAuthMiddleware(tm)
	chain := []fiber.Handler{middleware.Handle}
	if adminOnly {
		chain = append(chain, RequireAdmin())
	}
	chain = append(chain, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}
		return c.JSON(fiber.Map{"subject": principal.SubjectID, "role": string(principal.Role)})
	})
	app.Get("/protected", chain...)
	return app
}

func TestMiddlewareMissingHeader(t *testing.T) {
	app := newTestApp(NewTokenManager("test-secret"), false)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	app := newTestApp(NewTokenManager("test-secret"), false)

	for _, header := range []string{"Bearer", "Basic abc", "Bearer  ", "token"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestMiddlewareValidToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app := newTestApp(tm, false)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewareBearerCaseInsensitive(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app := newTestApp(tm, false)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdminForbidsStandardRole(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app := newTestApp(tm, true)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAdmitsAdmin(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app := newTestApp(tm, true)

	admin := testUser()
	admin.Role = domain.RoleAdmin
	token, _, err := tm.Issue(admin)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
