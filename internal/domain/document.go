package domain

import "time"

// Document is a stored attachment or upload owned by a user.
type Document struct {
	ID              string
	UserID          string
	EmailID         *string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageKey      string
	Category        *string
	ConfidenceScore *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
