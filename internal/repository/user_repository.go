package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/email-platform/internal/domain"
)

const userColumns = `
        id, email, password_hash, first_name, last_name, role, is_active,
        email_verified, mfa_secret, password_reset_token, password_reset_expires,
        last_login_at, organization_id, created_at, updated_at, deleted_at`

// UserRepository defines persistence access for platform accounts.
// Soft-deleted users are invisible to every lookup.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, first_name, last_name, role, organization_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, is_active, email_verified, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.OrganizationID,
	).Scan(&user.ID, &user.IsActive, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, first_name=$2, last_name=$3, role=$4, is_active=$5,
            email_verified=$6, organization_id=$7, updated_at=NOW()
        WHERE id=$8 AND deleted_at IS NULL`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		user.EmailVerified,
		user.OrganizationID,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT` + userColumns + `
        FROM users WHERE id=$1 AND deleted_at IS NULL`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT` + userColumns + `
        FROM users WHERE email=$1 AND deleted_at IS NULL`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	const query = `SELECT` + userColumns + `
        FROM users WHERE password_reset_token=$1 AND deleted_at IS NULL`
	return r.scanOne(r.pool.QueryRow(ctx, query, token))
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE users SET last_login_at=$1, updated_at=NOW()
        WHERE id=$2 AND deleted_at IS NULL`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE users SET password_hash=$1, updated_at=NOW()
        WHERE id=$2 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	const query = `
        UPDATE users SET password_reset_token=$1, password_reset_expires=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, token, expires, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ClearResetToken nulls the token and its expiry in a single statement;
// the pair must never be cleared partially.
func (r *userRepository) ClearResetToken(ctx context.Context, id string) error {
	const query = `
        UPDATE users SET password_reset_token=NULL, password_reset_expires=NULL, updated_at=NOW()
        WHERE id=$1 AND deleted_at IS NULL`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `
        UPDATE users SET deleted_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.EmailVerified,
		&user.MFASecret,
		&user.PasswordResetToken,
		&user.PasswordResetExpires,
		&user.LastLoginAt,
		&user.OrganizationID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
