package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/config"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/events"
)

type usersMock struct {
	createFn     func(ctx context.Context, user *domain.User) error
	updateFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn       func(ctx context.Context, limit, offset int) ([]domain.User, error)
}

func (m *usersMock) Create(ctx context.Context, user *domain.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, user)
}

func (m *usersMock) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, user)
}

func (m *usersMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getByIDFn(ctx, id)
}

func (m *usersMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getByEmailFn(ctx, email)
}

func (m *usersMock) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, limit, offset)
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4}}
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return &domain.User{
		ID:           "8c4a7b84-66a7-4c83-9df1-86e86f4f1b30",
		Name:         "Operator",
		Email:        "operator@example.com",
		PasswordHash: hash,
		Role:         domain.RoleStandard,
		Active:       true,
	}
}

func newTestAuthService(users *usersMock) *AuthService {
	return NewAuthService(testConfig(), users, events.NewInMemoryDispatcher(zap.NewNop()))
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, "password123")
	svc := newTestAuthService(&usersMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			assert.Equal(t, "operator@example.com", email)
			return user, nil
		},
	})

	got, token, expiresAt, err := svc.Login(context.Background(), "  Operator@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), expiresAt, 5*time.Second)

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(&usersMock{})

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "password123")
	svc := newTestAuthService(&usersMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	})

	_, _, _, err := svc.Login(context.Background(), user.Email, "not-the-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "password123")
	user.Active = false
	svc := newTestAuthService(&usersMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	})

	_, _, _, err := svc.Login(context.Background(), user.Email, "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestRefreshReissuesForActivePrincipal(t *testing.T) {
	user := activeUser(t, "password123")
	user.Role = domain.RoleAdmin
	svc := newTestAuthService(&usersMock{
		getByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		},
	})

	token, _, err := svc.tokens.Issue(user)
	require.NoError(t, err)

	fresh, _, err := svc.Refresh(context.Background(), token)
	require.NoError(t, err)

	claims, err := svc.TokenManager().Verify(fresh)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestRefreshFailsForInactivePrincipal(t *testing.T) {
	user := activeUser(t, "password123")
	token, _, err := auth.NewTokenManager("test-secret").Issue(user)
	require.NoError(t, err)

	user.Active = false
	svc := newTestAuthService(&usersMock{
		getByIDFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	})

	_, _, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshFailsForDeletedPrincipal(t *testing.T) {
	user := activeUser(t, "password123")
	token, _, err := auth.NewTokenManager("test-secret").Issue(user)
	require.NoError(t, err)

	svc := newTestAuthService(&usersMock{})
	_, _, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPureVerifySurvivesDeactivation(t *testing.T) {
	user := activeUser(t, "password123")
	svc := newTestAuthService(&usersMock{
		getByIDFn: func(context.Context, string) (*domain.User, error) {
			deactivated := *user
			deactivated.Active = false
			return &deactivated, nil
		},
	})

	token, _, err := svc.tokens.Issue(user)
	require.NoError(t, err)

	// The storeless check still admits the token.
	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)

	// The store-consulting confirmation does not.
	_, err = svc.Confirm(context.Background(), claims)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRequestRecoverySilentForUnknownEmail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	published := 0
	dispatcher.Subscribe(events.EventRecoveryRequested, func(context.Context, events.Event) error {
		published++
		return nil
	})
	svc := NewAuthService(testConfig(), &usersMock{}, dispatcher)

	svc.RequestRecovery(context.Background(), "nobody@example.com")
	assert.Zero(t, published)
}

func TestResetPasswordRoundTrip(t *testing.T) {
	user := activeUser(t, "old-password")
	var updated *domain.User
	svc := newTestAuthService(&usersMock{
		getByIDFn: func(context.Context, string) (*domain.User, error) { return user, nil },
		updateFn: func(_ context.Context, u *domain.User) error {
			updated = u
			return nil
		},
	})

	token, err := svc.tokens.IssueRecovery(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password"))
	require.NotNil(t, updated)
	assert.NoError(t, auth.ComparePassword(updated.PasswordHash, "new-password"))
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	user := activeUser(t, "old-password")
	svc := newTestAuthService(&usersMock{
		getByIDFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	})

	token, _, err := svc.tokens.Issue(user)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), token, "new-password")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestCreateUserConflict(t *testing.T) {
	existing := activeUser(t, "password123")
	svc := newTestAuthService(&usersMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return existing, nil },
	})

	_, err := svc.CreateUser(context.Background(), "Dup", existing.Email, "password123", domain.RoleStandard)
	require.Error(t, err)
}
