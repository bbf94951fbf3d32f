package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// AuthHandler exposes the session-token lifecycle over HTTP.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	user, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return apperrors.NewUnauthorized(service.ErrBadCredentials.Error())
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user":       userSummary(user),
	}})
}

// Logout POST /auth/logout. Audit-only: the token remains structurally valid
// until it expires. The bearer token is optional; a verifiable one attributes
// the audit event, anything else still logs out with 200.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var principal *auth.Principal
	if token, ok := auth.BearerToken(c); ok {
		if claims, err := h.service.TokenManager().Verify(token); err == nil {
			principal = &auth.Principal{
				SubjectID: claims.SubjectID(),
				Email:     claims.Email,
				Role:      claims.Role,
			}
		}
	}
	h.service.Logout(c.Context(), principal)
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Verify POST /auth/verify. The guard already did the pure check; this
// endpoint additionally confirms the principal against the credential store.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	claims, err := h.service.TokenManager().Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	user, err := h.service.Confirm(c.Context(), claims)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"valid": true, "user": userSummary(user)}})
}

// Refresh POST /auth/refresh. Accepts tokens past expiry but inside the
// grace window and exchanges them for a fresh session.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	fresh, expiresAt, err := h.service.Refresh(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenTooOld):
			return apperrors.NewTokenTooOld()
		case errors.Is(err, auth.ErrInvalidToken):
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: fresh, ExpiresAt: expiresAt}})
}

// Recover POST /auth/recover. Always answers the same way so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) Recover(c *fiber.Ctx) error {
	var req dto.RecoverRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	h.service.RequestRecovery(c.Context(), req.Email)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"message": "if the account exists, recovery instructions were sent",
	}})
}

// Reset POST /auth/reset.
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err := h.service.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}

// ChangePassword POST /auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err := h.service.ChangePassword(c.Context(), principal.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return apperrors.NewUnauthorized(service.ErrBadCredentials.Error())
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}
