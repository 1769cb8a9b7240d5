package dto

import (
	"time"

	"github.com/spec-kit/email-platform/internal/domain"
)

// EmailAccountRequest payload for linking or updating a mailbox.
type EmailAccountRequest struct {
	EmailAddress           string  `json:"email_address"`
	DisplayName            *string `json:"display_name,omitempty"`
	Provider               string  `json:"provider"`
	IMAPServer             *string `json:"imap_server,omitempty"`
	IMAPPort               *int    `json:"imap_port,omitempty"`
	IMAPUsername           *string `json:"imap_username,omitempty"`
	SMTPServer             *string `json:"smtp_server,omitempty"`
	SMTPPort               *int    `json:"smtp_port,omitempty"`
	SMTPUsername           *string `json:"smtp_username,omitempty"`
	IsActive               *bool   `json:"is_active,omitempty"`
	AutoProcess            *bool   `json:"auto_process,omitempty"`
	ProcessIntervalMinutes int     `json:"process_interval_minutes,omitempty"`
}

// EmailAccountResponse is the public projection of a mailbox.
// Credential blobs are excluded.
type EmailAccountResponse struct {
	ID                     string               `json:"id"`
	EmailAddress           string               `json:"email_address"`
	DisplayName            *string              `json:"display_name,omitempty"`
	Provider               domain.EmailProvider `json:"provider"`
	IMAPServer             *string              `json:"imap_server,omitempty"`
	IMAPPort               *int                 `json:"imap_port,omitempty"`
	SMTPServer             *string              `json:"smtp_server,omitempty"`
	SMTPPort               *int                 `json:"smtp_port,omitempty"`
	IsActive               bool                 `json:"is_active"`
	AutoProcess            bool                 `json:"auto_process"`
	ProcessIntervalMinutes int                  `json:"process_interval_minutes"`
	LastSyncAt             *time.Time           `json:"last_sync_at,omitempty"`
	CreatedAt              time.Time            `json:"created_at"`
}

// NewEmailAccountResponse maps a domain account.
func NewEmailAccountResponse(account *domain.EmailAccount) EmailAccountResponse {
	return EmailAccountResponse{
		ID:                     account.ID,
		EmailAddress:           account.EmailAddress,
		DisplayName:            account.DisplayName,
		Provider:               account.Provider,
		IMAPServer:             account.IMAPServer,
		IMAPPort:               account.IMAPPort,
		SMTPServer:             account.SMTPServer,
		SMTPPort:               account.SMTPPort,
		IsActive:               account.IsActive,
		AutoProcess:            account.AutoProcess,
		ProcessIntervalMinutes: account.ProcessIntervalMinutes,
		LastSyncAt:             account.LastSyncAt,
		CreatedAt:              account.CreatedAt,
	}
}

// EmailResponse is the read projection of an ingested message.
type EmailResponse struct {
	ID               string                       `json:"id"`
	MessageID        string                       `json:"message_id"`
	Sender           string                       `json:"sender"`
	SenderName       *string                      `json:"sender_name,omitempty"`
	Subject          string                       `json:"subject"`
	ReceivedAt       time.Time                    `json:"received_at"`
	ProcessingStatus domain.EmailProcessingStatus `json:"processing_status"`
	Category         *string                      `json:"category,omitempty"`
}

// NewEmailResponse maps a domain email.
func NewEmailResponse(email *domain.Email) EmailResponse {
	return EmailResponse{
		ID:               email.ID,
		MessageID:        email.MessageID,
		Sender:           email.Sender,
		SenderName:       email.SenderName,
		Subject:          email.Subject,
		ReceivedAt:       email.ReceivedAt,
		ProcessingStatus: email.ProcessingStatus,
		Category:         email.Category,
	}
}
