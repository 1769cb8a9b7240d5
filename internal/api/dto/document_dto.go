package dto

import (
	"time"

	"github.com/spec-kit/email-platform/internal/domain"
)

// DocumentResponse is the public projection of a stored document.
type DocumentResponse struct {
	ID              string     `json:"id"`
	EmailID         *string    `json:"email_id,omitempty"`
	FileName        string     `json:"file_name"`
	MimeType        string     `json:"mime_type"`
	SizeBytes       int64      `json:"size_bytes"`
	Category        *string    `json:"category,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewDocumentResponse maps a domain document.
func NewDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:              doc.ID,
		EmailID:         doc.EmailID,
		FileName:        doc.FileName,
		MimeType:        doc.MimeType,
		SizeBytes:       doc.SizeBytes,
		Category:        doc.Category,
		ConfidenceScore: doc.ConfidenceScore,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}
