package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recupera/collections-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:     "2f0c27c2-5cf4-4f43-9a35-2f6b8f9f5a11",
		Email:  "operator@example.com",
		Role:   domain.RoleStandard,
		Active: true,
	}
}

func managerAt(t0 time.Time) *TokenManager {
	tm := NewTokenManager("test-secret")
	tm.now = func() time.Time { return t0 }
	return tm
}

func TestIssueAndVerify(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tm := managerAt(t0)
	user := testUser()

	token, expiresAt, err := tm.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(SessionTTL), expiresAt)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID())
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleStandard, claims.Role)
	assert.Equal(t, PurposeSession, claims.Purpose)
}

func TestVerifyExpired(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tm := managerAt(t0)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	tm.now = func() time.Time { return t0.Add(SessionTTL + time.Minute) }
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTampered(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a").Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsRecoveryToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.IssueRecovery("user-1")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshWithinGraceWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tm := managerAt(t0)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	// Two days in: the session is long expired but still refreshable.
	tm.now = func() time.Time { return t0.Add(48 * time.Hour) }
	claims, err := tm.VerifyForRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, testUser().ID, claims.SubjectID())

	// One hour before the window closes.
	tm.now = func() time.Time { return t0.Add(RefreshWindow - time.Hour) }
	_, err = tm.VerifyForRefresh(token)
	assert.NoError(t, err)
}

func TestRefreshBeyondGraceWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tm := managerAt(t0)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	tm.now = func() time.Time { return t0.Add(RefreshWindow + time.Hour) }
	_, err = tm.VerifyForRefresh(token)
	assert.ErrorIs(t, err, ErrTokenTooOld)
}

func TestRefreshRejectsRecoveryToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.IssueRecovery("user-1")
	require.NoError(t, err)

	_, err = tm.VerifyForRefresh(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemRecovery(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tm := managerAt(t0)

	token, err := tm.IssueRecovery("user-1")
	require.NoError(t, err)

	subject, err := tm.RedeemRecovery(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestRedeemRecoveryExpired(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tm := managerAt(t0)
	token, err := tm.IssueRecovery("user-1")
	require.NoError(t, err)

	tm.now = func() time.Time { return t0.Add(RecoveryTTL + time.Minute) }
	_, err = tm.RedeemRecovery(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemRecoveryRejectsSessionToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.RedeemRecovery(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
