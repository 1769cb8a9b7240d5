package dto

import (
	"time"

	"github.com/spec-kit/email-platform/internal/domain"
)

// OrganizationRequest payload for tenant create/update.
type OrganizationRequest struct {
	Name         string  `json:"name"`
	Domain       *string `json:"domain,omitempty"`
	Plan         string  `json:"plan,omitempty"`
	MaxUsers     int     `json:"max_users,omitempty"`
	MaxStorageGB int     `json:"max_storage_gb,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// OrganizationResponse is the public projection of a tenant.
type OrganizationResponse struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Domain       *string                 `json:"domain,omitempty"`
	Plan         domain.OrganizationPlan `json:"plan"`
	MaxUsers     int                     `json:"max_users"`
	MaxStorageGB int                     `json:"max_storage_gb"`
	IsActive     bool                    `json:"is_active"`
	CreatedAt    time.Time               `json:"created_at"`
}

// NewOrganizationResponse maps a domain organization.
func NewOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:           org.ID,
		Name:         org.Name,
		Domain:       org.Domain,
		Plan:         org.Plan,
		MaxUsers:     org.MaxUsers,
		MaxStorageGB: org.MaxStorageGB,
		IsActive:     org.IsActive,
		CreatedAt:    org.CreatedAt,
	}
}
