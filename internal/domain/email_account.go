package domain

import "time"

// EmailProvider enumerates supported mailbox providers.
type EmailProvider string

const (
	ProviderGmail   EmailProvider = "gmail"
	ProviderOutlook EmailProvider = "outlook"
	ProviderIMAP    EmailProvider = "imap"
)

// Valid reports whether the provider is a known value.
func (p EmailProvider) Valid() bool {
	switch p {
	case ProviderGmail, ProviderOutlook, ProviderIMAP:
		return true
	}
	return false
}

// EmailAccount is a mailbox linked by a user for ingestion.
//
// Credential fields hold ciphertext produced by the ingestion pipeline;
// this service stores and returns them opaquely.
type EmailAccount struct {
	ID                     string
	UserID                 string
	EmailAddress           string
	DisplayName            *string
	Provider               EmailProvider
	IMAPServer             *string
	IMAPPort               *int
	IMAPUsername           *string
	IMAPPassword           []byte
	SMTPServer             *string
	SMTPPort               *int
	SMTPUsername           *string
	SMTPPassword           []byte
	AccessToken            []byte
	RefreshToken           []byte
	TokenExpiresAt         *time.Time
	IsActive               bool
	AutoProcess            bool
	ProcessIntervalMinutes int
	LastSyncAt             *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
