// Package session issues and validates time-bounded authentication
// claims binding a user id and role.
package session

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/deskline/helpdesk-service/internal/domain"
)

const denylistPrefix = "session:revoked:"

var (
	// ErrInvalidClaim covers malformed, expired and revoked tokens.
	// Validation fails closed: any doubt means invalid.
	ErrInvalidClaim = errors.New("invalid session claim")
)

// Claims is the JWT payload for a session.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session is the issued claim handed to the presentation layer: an
// opaque token plus an explicit expiry instant.
type Session struct {
	Token     string
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager signs, validates, refreshes and revokes session claims.
// Tokens are stateless; revocation is backed by a Redis denylist keyed
// by token id with TTL equal to the remaining claim lifetime.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	denylist redis.Cmdable
	now      func() time.Time
}

// NewManager builds a manager. The denylist client may be nil, in which
// case Invalidate reports an error and Validate skips the revocation
// check.
func NewManager(secret string, lifetime time.Duration, denylist redis.Cmdable) *Manager {
	if lifetime <= 0 {
		lifetime = 8 * time.Hour
	}
	return &Manager{
		secret:   []byte(secret),
		lifetime: lifetime,
		denylist: denylist,
		now:      time.Now,
	}
}

// Issue signs a fresh claim for the user.
func (m *Manager) Issue(userID string, role domain.Role) (*Session, error) {
	return m.issueAt(userID, role, m.now())
}

func (m *Manager) issueAt(userID string, role domain.Role, issuedAt time.Time) (*Session, error) {
	expiresAt := issuedAt.Add(m.lifetime)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     signed,
		UserID:    userID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate parses and checks a token. It returns ErrInvalidClaim for
// expired, malformed, mis-signed or revoked tokens.
func (m *Manager) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, ErrInvalidClaim
	}
	if m.denylist != nil {
		revoked, err := m.denylist.Exists(ctx, denylistPrefix+claims.ID).Result()
		if err != nil || revoked > 0 {
			return nil, ErrInvalidClaim
		}
	}
	return claims, nil
}

// Refresh re-issues the claim with a fresh full lifetime. Only valid
// claims are refreshable; the old token stays usable until its own
// expiry unless explicitly invalidated.
func (m *Manager) Refresh(ctx context.Context, token string) (*Session, error) {
	claims, err := m.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return m.issueAt(claims.UserID, claims.Role, m.now())
}

// Invalidate revokes a claim immediately by denylisting its token id
// for the remainder of its lifetime. Revoking an already-invalid claim
// is a no-op.
func (m *Manager) Invalidate(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	if m.denylist == nil {
		return errors.New("session denylist not configured")
	}
	remaining := claims.ExpiresAt.Time.Sub(m.now())
	if remaining <= 0 {
		return nil
	}
	return m.denylist.Set(ctx, denylistPrefix+claims.ID, "1", remaining).Err()
}

func (m *Manager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" || !domain.ValidRole(claims.Role) {
		return nil, errors.New("malformed claim payload")
	}
	return claims, nil
}
