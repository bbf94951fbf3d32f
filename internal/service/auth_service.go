package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/config"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/events"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// ErrBadCredentials is returned for unknown email, wrong password and
// inactive account alike. Callers must surface it verbatim so the API never
// reveals which accounts exist.
var ErrBadCredentials = errors.New("email or password incorrect")

// AuthService coordinates the session-token lifecycle. Token issuance and
// verification are pure; this service owns the store-consulting flows
// (login, refresh, identity confirmation, recovery).
type AuthService struct {
	users      repositoryUsers
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	now        func() time.Time
}

// repositoryUsers is the slice of the user repository this service needs.
type repositoryUsers interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repositoryUsers, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		now:        time.Now,
	}
}

// Login authenticates by email and password and issues a session token.
// Unknown email, wrong password and deactivated account all return
// ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrBadCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !user.Active {
		return nil, "", time.Time{}, ErrBadCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrBadCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedIn,
		Entity:    "user",
		EntityID:  user.ID,
		Actor:     events.Actor{UserID: user.ID, Email: user.Email},
		Timestamp: s.now(),
	})
	return user, token, expiresAt, nil
}

// Logout is audit-only: issued tokens stay structurally valid until natural
// expiry because there is no server-side deny-list.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) {
	actor := events.Actor{}
	entityID := ""
	if principal != nil {
		actor = events.Actor{UserID: principal.SubjectID, Email: principal.Email}
		entityID = principal.SubjectID
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedOut,
		Entity:    "user",
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: s.now(),
	})
}

// Confirm re-validates a verified token against the credential store. This
// is the store-consulting half of verification: a deactivated or deleted
// principal fails here even while the pure check still passes.
func (s *AuthService) Confirm(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

// Refresh exchanges a token younger than the grace window for a fresh one.
// The principal is re-resolved so the new token carries the current role and
// email, not the stale snapshot.
func (s *AuthService) Refresh(ctx context.Context, tokenStr string) (string, time.Time, error) {
	claims, err := s.tokens.VerifyForRefresh(tokenStr)
	if err != nil {
		return "", time.Time{}, err
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, auth.ErrInvalidToken
		}
		return "", time.Time{}, err
	}
	if !user.Active {
		return "", time.Time{}, auth.ErrInvalidToken
	}

	return s.tokens.Issue(user)
}

// RequestRecovery issues a recovery token for the account when it exists and
// is active. It reports success either way; the caller must not leak whether
// the email is registered.
func (s *AuthService) RequestRecovery(ctx context.Context, email string) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || !user.Active {
		return
	}

	token, err := s.tokens.IssueRecovery(user.ID)
	if err != nil {
		return
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRecoveryRequested,
		Entity:    "user",
		EntityID:  user.ID,
		Actor:     events.Actor{UserID: user.ID, Email: user.Email},
		Timestamp: s.now(),
		Payload:   map[string]any{"email": user.Email, "token": token},
	})
}

// ResetPassword redeems a recovery token and replaces the stored hash.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	subjectID, err := s.tokens.RedeemRecovery(tokenStr)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.ErrInvalidToken
		}
		return err
	}
	if !user.Active {
		return auth.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordReset,
		Entity:    "user",
		EntityID:  user.ID,
		Actor:     events.Actor{UserID: user.ID, Email: user.Email},
		Timestamp: s.now(),
	})
	return nil
}

// ChangePassword verifies the current password before updating to the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return ErrBadCredentials
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// CreateUser provisions an operator account (admin only at the HTTP layer).
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers pages over operator accounts.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.users.List(ctx, limit, offset)
}

// SetUserActive flips the active flag. Deactivation does not invalidate
// already-issued tokens for pure verification; it blocks refresh and
// identity confirmation.
func (s *AuthService) SetUserActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
