package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/email-platform/internal/auth"
	"github.com/spec-kit/email-platform/internal/config"
	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/events"
	"github.com/spec-kit/email-platform/internal/repository"
	apperrors "github.com/spec-kit/email-platform/pkg/util"
)

const uniqueViolationCode = "23505"

// LoginResult pairs the authenticated user with a fresh token pair.
type LoginResult struct {
	User            *domain.User
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// AuthService coordinates credential validation, token issuance and the
// password lifecycle.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   cfg.Auth.PasswordResetTTL(),
	}
}

// ValidateCredentials checks an email/password pair. Unknown email and
// wrong password both return (nil, nil) so callers cannot tell them
// apart. A correct password on a deactivated account returns an
// unauthorized error so the caller can show a distinct message.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil
	}

	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("account is deactivated")
	}
	return user, nil
}

// Login issues a token pair for a pre-validated user and records the
// login time.
func (s *AuthService) Login(ctx context.Context, user *domain.User) (*LoginResult, error) {
	pair, err := s.tokenMgr.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return &LoginResult{
		User:            user,
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt,
	}, nil
}

// Register creates a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*LoginResult, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique index on email decides concurrent registrations
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.NewConflict("user with this email already exists", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	})

	return s.Login(ctx, user)
}

// RefreshTokens validates a refresh token and rotates the pair. Every
// verification failure surfaces as unauthorized without detail.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokenMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	pair, err := s.tokenMgr.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:            user,
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt,
	}, nil
}

// ChangePassword verifies the current password before updating the hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return apperrors.NewUnauthorized("invalid old password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{Email: user.Email})
	return nil
}

// RequestPasswordReset issues a reset token when the email is known.
// The outcome is identical either way so callers cannot probe for
// registered addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expires := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetRequested, user.ID, events.PasswordResetRequestedPayload{
		Email:      user.Email,
		ResetToken: token,
		ExpiresAt:  expires,
	})
	return nil
}

// ResetPassword consumes a reset token. The stored expiry must be
// strictly after now; the token and expiry are cleared together.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid or expired reset token")
		}
		return err
	}
	if user.PasswordResetExpires == nil || !user.PasswordResetExpires.After(time.Now()) {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{Email: user.Email})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
