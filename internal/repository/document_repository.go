package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/email-platform/internal/domain"
)

const documentColumns = `
        id, user_id, email_id, file_name, mime_type, size_bytes, storage_key,
        category, confidence_score, created_at, updated_at`

// DocumentRepository defines persistence access for stored documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository returns a Postgres-backed implementation.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (user_id, email_id, file_name, mime_type, size_bytes, storage_key)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		doc.UserID,
		doc.EmailID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const query = `SELECT` + documentColumns + `
        FROM documents WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `SELECT` + documentColumns + `
        FROM documents WHERE user_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *documentRepository) scanOne(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.EmailID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.Category,
		&doc.ConfidenceScore,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}
