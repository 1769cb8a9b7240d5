package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/email-platform/internal/domain"
)

const emailColumns = `
        id, email_account_id, message_id, sender, sender_name, subject,
        received_at, processing_status, category, created_at, updated_at`

// EmailRepository exposes the read surface over ingested messages.
type EmailRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Email, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Email, error)
}

type emailRepository struct {
	pool *pgxpool.Pool
}

// NewEmailRepository returns a Postgres-backed implementation.
func NewEmailRepository(pool *pgxpool.Pool) EmailRepository {
	return &emailRepository{pool: pool}
}

func (r *emailRepository) GetByID(ctx context.Context, id string) (*domain.Email, error) {
	const query = `SELECT` + emailColumns + `
        FROM emails WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *emailRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Email, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `SELECT` + emailColumns + `
        FROM emails WHERE email_account_id=$1
        ORDER BY received_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []*domain.Email
	for rows.Next() {
		email, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *emailRepository) scanOne(row pgx.Row) (*domain.Email, error) {
	var email domain.Email
	if err := row.Scan(
		&email.ID,
		&email.EmailAccountID,
		&email.MessageID,
		&email.Sender,
		&email.SenderName,
		&email.Subject,
		&email.ReceivedAt,
		&email.ProcessingStatus,
		&email.Category,
		&email.CreatedAt,
		&email.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &email, nil
}
