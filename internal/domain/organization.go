package domain

import "time"

// OrganizationPlan enumerates subscription tiers.
type OrganizationPlan string

const (
	PlanBasic      OrganizationPlan = "basic"
	PlanPro        OrganizationPlan = "pro"
	PlanEnterprise OrganizationPlan = "enterprise"
)

// Organization groups users under a shared tenant.
type Organization struct {
	ID           string
	Name         string
	Domain       *string
	Plan         OrganizationPlan
	MaxUsers     int
	MaxStorageGB int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
