package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/events"
	"github.com/spec-kit/email-platform/internal/repository"
	apperrors "github.com/spec-kit/email-platform/pkg/util"
)

// DocumentService exposes the document surface. Blob IO and AI
// classification happen out of band; this service manages metadata.
type DocumentService struct {
	documents  repository.DocumentRepository
	dispatcher events.Dispatcher
}

// NewDocumentService builds the service.
func NewDocumentService(documents repository.DocumentRepository, dispatcher events.Dispatcher) *DocumentService {
	return &DocumentService{documents: documents, dispatcher: dispatcher}
}

// ListDocuments returns the actor's documents.
func (s *DocumentService) ListDocuments(ctx context.Context, actor *domain.User, limit, offset int) ([]*domain.Document, error) {
	return s.documents.ListByUser(ctx, actor.ID, limit, offset)
}

// GetDocument returns a document the actor may view.
func (s *DocumentService) GetDocument(ctx context.Context, actor *domain.User, id string) (*domain.Document, error) {
	return s.ownedDocument(ctx, actor, id)
}

// DeleteDocument removes document metadata.
func (s *DocumentService) DeleteDocument(ctx context.Context, actor *domain.User, id string) error {
	doc, err := s.ownedDocument(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, doc.ID); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDocumentDeleted,
			UserID:    actor.ID,
			Timestamp: time.Now(),
			Payload:   events.DocumentDeletedPayload{DocumentID: doc.ID, FileName: doc.FileName},
		})
	}
	return nil
}

func (s *DocumentService) ownedDocument(ctx context.Context, actor *domain.User, id string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("document", nil)
		}
		return nil, err
	}
	if doc.UserID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("not the document owner")
	}
	return doc, nil
}
