package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/email-platform/internal/domain"
)

// OrganizationRepository defines persistence access for tenants.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	Update(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository returns a Postgres-backed implementation.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const query = `
        INSERT INTO organizations (name, domain, plan, max_users, max_storage_gb)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, is_active, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		org.Name,
		org.Domain,
		org.Plan,
		org.MaxUsers,
		org.MaxStorageGB,
	).Scan(&org.ID, &org.IsActive, &org.CreatedAt, &org.UpdatedAt)
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	const query = `
        UPDATE organizations SET name=$1, domain=$2, plan=$3, max_users=$4,
            max_storage_gb=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		org.Name,
		org.Domain,
		org.Plan,
		org.MaxUsers,
		org.MaxStorageGB,
		org.IsActive,
		org.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, domain, plan, max_users, max_storage_gb, is_active, created_at, updated_at
        FROM organizations WHERE id=$1`

	var org domain.Organization
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.Domain,
		&org.Plan,
		&org.MaxUsers,
		&org.MaxStorageGB,
		&org.IsActive,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	const query = `
        SELECT id, name, domain, plan, max_users, max_storage_gb, is_active, created_at, updated_at
        FROM organizations ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(
			&org.ID,
			&org.Name,
			&org.Domain,
			&org.Plan,
			&org.MaxUsers,
			&org.MaxStorageGB,
			&org.IsActive,
			&org.CreatedAt,
			&org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orgs = append(orgs, &org)
	}
	return orgs, rows.Err()
}
