package events

import (
	"time"

	"github.com/spec-kit/email-platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
	EventEmailAccountLinked     EventType = "email_account_linked"
	EventEmailAccountUnlinked   EventType = "email_account_unlinked"
	EventDocumentDeleted        EventType = "document_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	OrganizationID *string         `json:"organization_id,omitempty"`
}

// PasswordResetRequestedPayload carries the reset token to the
// notification collaborator.
type PasswordResetRequestedPayload struct {
	Email      string    `json:"email"`
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	Email string `json:"email"`
}

// EmailAccountLinkedPayload payload.
type EmailAccountLinkedPayload struct {
	AccountID    string               `json:"account_id"`
	EmailAddress string               `json:"email_address"`
	Provider     domain.EmailProvider `json:"provider"`
}

// EmailAccountUnlinkedPayload payload.
type EmailAccountUnlinkedPayload struct {
	AccountID string `json:"account_id"`
}

// DocumentDeletedPayload payload.
type DocumentDeletedPayload struct {
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
}
