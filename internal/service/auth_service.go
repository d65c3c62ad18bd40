package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/deskline/helpdesk-service/internal/auth"
	"github.com/deskline/helpdesk-service/internal/config"
	"github.com/deskline/helpdesk-service/internal/domain"
	"github.com/deskline/helpdesk-service/internal/policy"
	"github.com/deskline/helpdesk-service/internal/session"
	apperrors "github.com/deskline/helpdesk-service/pkg/util"
)

// AuthService fronts the identity store: registration, credential
// verification with lockout, session issuance, and profile/password
// maintenance.
type AuthService struct {
	users      repositoryUsers
	sessions   *session.Manager
	limiter    *loginLimiter
	bcryptCost int
	now        func() time.Time
}

// repositoryUsers is the slice of the user repository AuthService needs.
type repositoryUsers interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// NewAuthService builds the service.
func NewAuthService(cfg *config.Config, users repositoryUsers, sessions *session.Manager, redisClient redis.Cmdable) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		limiter:    newLoginLimiter(redisClient, cfg.Lockout.MaxFailures, cfg.Lockout.Window()),
		bcryptCost: cfg.Session.BcryptCost,
		now:        time.Now,
	}
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Avatar     *string
	Department *string
	Phone      *string
}

// ProfileUpdate carries the mutable profile fields; nil means keep.
type ProfileUpdate struct {
	Name       *string
	Avatar     *string
	Department *string
	Phone      *string
}

// Register creates an account and issues a first session.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *session.Session, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || !strings.Contains(email, "@") {
		return nil, nil, apperrors.NewValidationError("name and a valid email are required", nil)
	}
	if !domain.ValidRole(input.Role) {
		return nil, nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return nil, nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already in use", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Avatar:       input.Avatar,
		Department:   input.Department,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	sess, err := s.sessions.Issue(user.ID, user.Role)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, sess, nil
}

// Login verifies credentials and issues a session claim. Five
// consecutive failures per email lock the account out for the
// configured window.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if s.limiter.Locked(ctx, email) {
		return nil, nil, apperrors.NewDomainError(apperrors.CodeLockedOut,
			"too many login attempts, try again later", http.StatusTooManyRequests, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.limiter.RecordFailure(ctx, email)
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.limiter.RecordFailure(ctx, email)
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	s.limiter.Reset(ctx, email)
	sess, err := s.sessions.Issue(user.ID, user.Role)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, sess, nil
}

// Logout revokes the session immediately.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Refresh re-issues a still-valid session with a fresh lifetime.
func (s *AuthService) Refresh(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.sessions.Refresh(ctx, token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session")
	}
	return sess, nil
}

// UpdateProfile mutates the caller's own profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = name
	}
	if update.Avatar != nil {
		user.Avatar = update.Avatar
	}
	if update.Department != nil {
		user.Department = update.Department
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new
// hash. The new password must meet the strength rules.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListUsers returns all accounts; admin-only per policy.
func (s *AuthService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !policy.CanPerform(actor.Role, policy.ActionListUsers, nil, actor.ID) {
		return nil, apperrors.NewForbidden()
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
