package dto

import (
	"time"

	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/service"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserResponse is the public projection of a user. Password hash, MFA
// secret and reset token fields are deliberately absent.
type UserResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Role           domain.UserRole `json:"role"`
	IsActive       bool            `json:"is_active"`
	EmailVerified  bool            `json:"email_verified"`
	OrganizationID *string         `json:"organization_id,omitempty"`
	LastLoginAt    *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewUserResponse maps a domain user to its public projection.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           user.Role,
		IsActive:       user.IsActive,
		EmailVerified:  user.EmailVerified,
		OrganizationID: user.OrganizationID,
		LastLoginAt:    user.LastLoginAt,
		CreatedAt:      user.CreatedAt,
	}
}

// TokensResponse carries an issued pair.
type TokensResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResponse is the standard response for login/register/refresh.
type LoginResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// NewLoginResponse maps a service login result.
func NewLoginResponse(result *service.LoginResult) LoginResponse {
	return LoginResponse{
		User: NewUserResponse(result.User),
		Tokens: TokensResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			ExpiresAt:    result.AccessExpiresAt,
		},
	}
}

// MessageResponse carries a generic status message.
type MessageResponse struct {
	Message string `json:"message"`
}
