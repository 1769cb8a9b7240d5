package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/email-platform/internal/domain"
)

const emailAccountColumns = `
        id, user_id, email_address, display_name, provider,
        imap_server, imap_port, imap_username, imap_password,
        smtp_server, smtp_port, smtp_username, smtp_password,
        access_token, refresh_token, token_expires_at,
        is_active, auto_process, process_interval_minutes, last_sync_at,
        created_at, updated_at`

// EmailAccountRepository defines persistence access for linked mailboxes.
type EmailAccountRepository interface {
	Create(ctx context.Context, account *domain.EmailAccount) error
	Update(ctx context.Context, account *domain.EmailAccount) error
	GetByID(ctx context.Context, id string) (*domain.EmailAccount, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.EmailAccount, error)
	Delete(ctx context.Context, id string) error
}

type emailAccountRepository struct {
	pool *pgxpool.Pool
}

// NewEmailAccountRepository returns a Postgres-backed implementation.
func NewEmailAccountRepository(pool *pgxpool.Pool) EmailAccountRepository {
	return &emailAccountRepository{pool: pool}
}

func (r *emailAccountRepository) Create(ctx context.Context, account *domain.EmailAccount) error {
	const query = `
        INSERT INTO email_accounts (user_id, email_address, display_name, provider,
            imap_server, imap_port, imap_username, imap_password,
            smtp_server, smtp_port, smtp_username, smtp_password,
            auto_process, process_interval_minutes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, is_active, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.UserID,
		account.EmailAddress,
		account.DisplayName,
		account.Provider,
		account.IMAPServer,
		account.IMAPPort,
		account.IMAPUsername,
		account.IMAPPassword,
		account.SMTPServer,
		account.SMTPPort,
		account.SMTPUsername,
		account.SMTPPassword,
		account.AutoProcess,
		account.ProcessIntervalMinutes,
	).Scan(&account.ID, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
}

func (r *emailAccountRepository) Update(ctx context.Context, account *domain.EmailAccount) error {
	const query = `
        UPDATE email_accounts SET display_name=$1, imap_server=$2, imap_port=$3,
            imap_username=$4, smtp_server=$5, smtp_port=$6, smtp_username=$7,
            is_active=$8, auto_process=$9, process_interval_minutes=$10, updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		account.DisplayName,
		account.IMAPServer,
		account.IMAPPort,
		account.IMAPUsername,
		account.SMTPServer,
		account.SMTPPort,
		account.SMTPUsername,
		account.IsActive,
		account.AutoProcess,
		account.ProcessIntervalMinutes,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *emailAccountRepository) GetByID(ctx context.Context, id string) (*domain.EmailAccount, error) {
	const query = `SELECT` + emailAccountColumns + `
        FROM email_accounts WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *emailAccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.EmailAccount, error) {
	const query = `SELECT` + emailAccountColumns + `
        FROM email_accounts WHERE user_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.EmailAccount
	for rows.Next() {
		account, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *emailAccountRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM email_accounts WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *emailAccountRepository) scanOne(row pgx.Row) (*domain.EmailAccount, error) {
	var account domain.EmailAccount
	if err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.EmailAddress,
		&account.DisplayName,
		&account.Provider,
		&account.IMAPServer,
		&account.IMAPPort,
		&account.IMAPUsername,
		&account.IMAPPassword,
		&account.SMTPServer,
		&account.SMTPPort,
		&account.SMTPUsername,
		&account.SMTPPassword,
		&account.AccessToken,
		&account.RefreshToken,
		&account.TokenExpiresAt,
		&account.IsActive,
		&account.AutoProcess,
		&account.ProcessIntervalMinutes,
		&account.LastSyncAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
