package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskline/helpdesk-service/internal/auth"
	"github.com/deskline/helpdesk-service/internal/config"
	"github.com/deskline/helpdesk-service/internal/domain"
	"github.com/deskline/helpdesk-service/internal/session"
	apperrors "github.com/deskline/helpdesk-service/pkg/util"
)

const (
	goodPassword  = "Sup3rSecret!"
	wrongPassword = "Wr0ngGuess!"
)

func newTestAuth(t *testing.T) (*AuthService, *memStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})

	cfg := &config.Config{}
	cfg.Session.JWTSecret = "auth-service-test-secret"
	cfg.Session.LifetimeHours = 8
	cfg.Session.BcryptCost = 4 // MinCost+ keeps tests fast
	cfg.Lockout.MaxFailures = 5
	cfg.Lockout.WindowMinutes = 15

	store := newMemStore()
	sessions := session.NewManager(cfg.Session.JWTSecret, cfg.Session.Lifetime(), client)
	return NewAuthService(cfg, userStore{store}, sessions, client), store, srv
}

func seedAccount(t *testing.T, store *memStore, email string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(goodPassword, 4)
	require.NoError(t, err)
	user := &domain.User{
		ID:           "user-" + email,
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	user, sess, err := svc.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: goodPassword,
		Role:     domain.RoleRequester,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRequester, user.Role)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 8*time.Hour, sess.ExpiresAt.Sub(sess.IssuedAt))

	logged, sess2, err := svc.Login(ctx, "ana@example.com", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, sess2.Token)
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	for _, password := range []string{"short1!", "alllower1!", "NoDigits!", "NoSpecial1"} {
		_, _, err := svc.Register(ctx, RegisterInput{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: password,
			Role:     domain.RoleRequester,
		})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "password %q should fail", password)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	seedAccount(t, store, "ana@example.com", domain.RoleRequester)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "Ana@Example.com", // email uniqueness is case-insensitive
		Password: goodPassword,
		Role:     domain.RoleRequester,
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	seedAccount(t, store, "ana@example.com", domain.RoleRequester)

	_, _, err := svc.Login(context.Background(), "ana@example.com", wrongPassword)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, store, srv := newTestAuth(t)
	seedAccount(t, store, "ana@example.com", domain.RoleRequester)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(ctx, "ana@example.com", wrongPassword)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	}

	// Even the right password is refused while locked.
	_, _, err := svc.Login(ctx, "ana@example.com", goodPassword)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLockedOut))

	// The lock expires with the window.
	srv.FastForward(16 * time.Minute)
	_, _, err = svc.Login(ctx, "ana@example.com", goodPassword)
	assert.NoError(t, err)
}

func TestLoginFailuresResetOnSuccess(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	seedAccount(t, store, "ana@example.com", domain.RoleRequester)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _, _ = svc.Login(ctx, "ana@example.com", wrongPassword)
	}
	_, _, err := svc.Login(ctx, "ana@example.com", goodPassword)
	require.NoError(t, err)

	// Counter was cleared: four more failures do not lock yet.
	for i := 0; i < 4; i++ {
		_, _, err = svc.Login(ctx, "ana@example.com", wrongPassword)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	}
}

func TestLockoutCountsUnknownEmails(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(ctx, "ghost@example.com", wrongPassword)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	}
	_, _, err := svc.Login(ctx, "ghost@example.com", wrongPassword)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLockedOut))
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, store, srv := newTestAuth(t)
	seedAccount(t, store, "ana@example.com", domain.RoleRequester)
	ctx := context.Background()

	_, sess, err := svc.Login(ctx, "ana@example.com", goodPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	mgr := session.NewManager("auth-service-test-secret", 8*time.Hour, client)
	_, err = mgr.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrInvalidClaim)
}

func TestChangePassword(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	user := seedAccount(t, store, "ana@example.com", domain.RoleRequester)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, wrongPassword, "N3wSecret!")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	err = svc.ChangePassword(ctx, user.ID, goodPassword, "weak")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, goodPassword, "N3wSecret!"))

	_, _, err = svc.Login(ctx, "ana@example.com", "N3wSecret!")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	user := seedAccount(t, store, "ana@example.com", domain.RoleRequester)
	ctx := context.Background()

	name := "Ana Souza"
	dept := "Finance"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &name, Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.Name)
	require.NotNil(t, updated.Department)
	assert.Equal(t, "Finance", *updated.Department)

	empty := "  "
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &empty})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.UpdateProfile(ctx, "missing", ProfileUpdate{Name: &name})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListUsersIsAdminOnly(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	admin := seedAccount(t, store, "admin@example.com", domain.RoleAdmin)
	support := seedAccount(t, store, "sup@example.com", domain.RoleSupport)
	requester := seedAccount(t, store, "req@example.com", domain.RoleRequester)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = svc.ListUsers(ctx, support)
	assert.True(t, apperrors.IsForbidden(err))
	_, err = svc.ListUsers(ctx, requester)
	assert.True(t, apperrors.IsForbidden(err))
}
