package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/deskline/helpdesk-service/internal/domain"
)

const testSecret = "unit-test-secret"

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	return NewManager(testSecret, 8*time.Hour, client), srv
}

func TestIssueAndValidate(t *testing.T) {
	mgr, _ := newTestManager(t)

	sess, err := mgr.Issue("u1", domain.RoleSupport)
	assert.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 8*time.Hour, sess.ExpiresAt.Sub(sess.IssuedAt))

	claims, err := mgr.Validate(context.Background(), sess.Token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleSupport, claims.Role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	mgr, _ := newTestManager(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := mgr.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidClaim)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	mgr, _ := newTestManager(t)
	other := NewManager("another-secret", 8*time.Hour, nil)

	sess, err := other.Issue("u1", domain.RoleAdmin)
	assert.NoError(t, err)

	_, err = mgr.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestValidateFailsClosedOnExpiry(t *testing.T) {
	mgr, _ := newTestManager(t)

	issued := time.Now().Add(-9 * time.Hour)
	sess, err := mgr.issueAt("u1", domain.RoleRequester, issued)
	assert.NoError(t, err)

	_, err = mgr.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestRefreshExtendsLifetime(t *testing.T) {
	mgr, _ := newTestManager(t)

	sess, err := mgr.Issue("u1", domain.RoleRequester)
	assert.NoError(t, err)

	refreshed, err := mgr.Refresh(context.Background(), sess.Token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", refreshed.UserID)
	assert.False(t, refreshed.ExpiresAt.Before(sess.ExpiresAt))
}

func TestRefreshRejectsExpired(t *testing.T) {
	mgr, _ := newTestManager(t)

	sess, err := mgr.issueAt("u1", domain.RoleRequester, time.Now().Add(-9*time.Hour))
	assert.NoError(t, err)

	_, err = mgr.Refresh(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestInvalidateIsImmediate(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	sess, err := mgr.Issue("u1", domain.RoleAdmin)
	assert.NoError(t, err)

	assert.NoError(t, mgr.Invalidate(ctx, sess.Token))

	_, err = mgr.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestInvalidateGarbageIsNoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.NoError(t, mgr.Invalidate(context.Background(), "junk"))
}

func TestDenylistEntryExpiresWithClaim(t *testing.T) {
	mgr, srv := newTestManager(t)
	ctx := context.Background()

	sess, err := mgr.Issue("u1", domain.RoleSupport)
	assert.NoError(t, err)
	assert.NoError(t, mgr.Invalidate(ctx, sess.Token))

	// The denylist key outlives the claim by nothing: after the claim
	// lifetime passes, redis evicts it.
	srv.FastForward(9 * time.Hour)
	assert.Empty(t, srv.Keys())
}
