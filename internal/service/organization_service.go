package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/repository"
	apperrors "github.com/spec-kit/email-platform/pkg/util"
)

// OrganizationService manages tenants. All operations are admin-only;
// the role check lives in the route guards.
type OrganizationService struct {
	orgs repository.OrganizationRepository
}

// NewOrganizationService builds the service.
func NewOrganizationService(orgs repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgs: orgs}
}

// CreateOrganization registers a tenant with plan defaults.
func (s *OrganizationService) CreateOrganization(ctx context.Context, org *domain.Organization) (*domain.Organization, error) {
	if org.Plan == "" {
		org.Plan = domain.PlanBasic
	}
	if org.MaxUsers <= 0 {
		org.MaxUsers = 10
	}
	if org.MaxStorageGB <= 0 {
		org.MaxStorageGB = 100
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrganization fetches a tenant.
func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("organization", nil)
		}
		return nil, err
	}
	return org, nil
}

// ListOrganizations returns all tenants.
func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]*domain.Organization, error) {
	return s.orgs.List(ctx)
}

// UpdateOrganization applies tenant settings.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, org *domain.Organization) (*domain.Organization, error) {
	if err := s.orgs.Update(ctx, org); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("organization", nil)
		}
		return nil, err
	}
	return org, nil
}
