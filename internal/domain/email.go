package domain

import "time"

// EmailProcessingStatus tracks the background classification lifecycle.
type EmailProcessingStatus string

const (
	EmailStatusPending    EmailProcessingStatus = "pending"
	EmailStatusProcessing EmailProcessingStatus = "processing"
	EmailStatusCompleted  EmailProcessingStatus = "completed"
	EmailStatusFailed     EmailProcessingStatus = "failed"
)

// Email is an ingested message. Rows are written by the ingestion
// pipeline; this service only reads them.
type Email struct {
	ID               string
	EmailAccountID   string
	MessageID        string
	Sender           string
	SenderName       *string
	Subject          string
	ReceivedAt       time.Time
	ProcessingStatus EmailProcessingStatus
	Category         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
