package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/recupera/collections-service/internal/domain"
)

// Token lifetimes are fixed by design. Sessions live 24h; an expired session
// can still be exchanged for a fresh one until it is 7 days old; recovery
// tokens are single-purpose and live 1h.
const (
	SessionTTL    = 24 * time.Hour
	RecoveryTTL   = time.Hour
	RefreshWindow = 7 * 24 * time.Hour
)

// Token purposes. A token issued for one purpose is never honored for another.
const (
	PurposeSession  = "session"
	PurposeRecovery = "recovery"
)

var (
	// ErrInvalidToken covers malformed encoding, signature mismatch, expiry
	// and purpose mismatch. Callers must not distinguish these cases in
	// client-facing messages.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTokenTooOld marks a refresh attempted beyond the grace window.
	ErrTokenTooOld = errors.New("token beyond refresh window")
)

// TokenManager issues and validates signed bearer tokens. It is stateless:
// the signing secret is read-only after construction and every method is a
// pure function over its inputs and the clock.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager builds a manager around the process-wide signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Claims describes the JWT payload for both session and recovery tokens.
type Claims struct {
	Email   string      `json:"email,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
	Purpose string      `json:"purpose"`
	jwt.RegisteredClaims
}

// SubjectID returns the principal identifier the token was issued for.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// Issue builds and signs a session token for the principal. Role and email
// are snapshots taken at issuance; a role change requires re-issuance.
func (tm *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(SessionTTL)
	claims := &Claims{
		Email:   user.Email,
		Role:    user.Role,
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := tm.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature, expiry and purpose of a session token. It never
// consults the credential store; staleness until natural expiry is the
// accepted trade-off for a storeless hot path.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tokenStr, true)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeSession {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyForRefresh checks the signature ignoring expiry, then enforces the
// refresh grace window against the issuance timestamp.
func (tm *TokenManager) VerifyForRefresh(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tokenStr, false)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeSession {
		return nil, ErrInvalidToken
	}
	if claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	if tm.now().Sub(claims.IssuedAt.Time) > RefreshWindow {
		return nil, ErrTokenTooOld
	}
	return claims, nil
}

// IssueRecovery builds a short-lived token usable only for password reset.
func (tm *TokenManager) IssueRecovery(userID string) (string, error) {
	now := tm.now()
	claims := &Claims{
		Purpose: PurposeRecovery,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RecoveryTTL)),
		},
	}
	return tm.sign(claims)
}

// RedeemRecovery validates a recovery token and returns the subject it was
// issued for. Session tokens are rejected outright.
func (tm *TokenManager) RedeemRecovery(tokenStr string) (string, error) {
	claims, err := tm.parse(tokenStr, true)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeRecovery {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (tm *TokenManager) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) parse(tokenStr string, checkExpiry bool) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(tm.now)}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
