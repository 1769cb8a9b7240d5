package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/email-platform/internal/api/dto"
	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/service"
)

// OrganizationsHandler exposes tenant administration endpoints.
type OrganizationsHandler struct {
	orgs *service.OrganizationService
}

// NewOrganizationsHandler constructs handler.
func NewOrganizationsHandler(orgs *service.OrganizationService) *OrganizationsHandler {
	return &OrganizationsHandler{orgs: orgs}
}

// Create handles POST /organizations.
func (h *OrganizationsHandler) Create(c *fiber.Ctx) error {
	var req dto.OrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	org := &domain.Organization{
		Name:         req.Name,
		Domain:       req.Domain,
		Plan:         domain.OrganizationPlan(req.Plan),
		MaxUsers:     req.MaxUsers,
		MaxStorageGB: req.MaxStorageGB,
	}
	created, err := h.orgs.CreateOrganization(c.UserContext(), org)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOrganizationResponse(created)})
}

// List handles GET /organizations.
func (h *OrganizationsHandler) List(c *fiber.Ctx) error {
	orgs, err := h.orgs.ListOrganizations(c.UserContext())
	if err != nil {
		return err
	}
	responses := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		responses = append(responses, dto.NewOrganizationResponse(org))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /organizations/:id.
func (h *OrganizationsHandler) Get(c *fiber.Ctx) error {
	org, err := h.orgs.GetOrganization(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganizationResponse(org)})
}

// Update handles PUT /organizations/:id.
func (h *OrganizationsHandler) Update(c *fiber.Ctx) error {
	existing, err := h.orgs.GetOrganization(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	var req dto.OrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Domain != nil {
		existing.Domain = req.Domain
	}
	if req.Plan != "" {
		existing.Plan = domain.OrganizationPlan(req.Plan)
	}
	if req.MaxUsers > 0 {
		existing.MaxUsers = req.MaxUsers
	}
	if req.MaxStorageGB > 0 {
		existing.MaxStorageGB = req.MaxStorageGB
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	updated, err := h.orgs.UpdateOrganization(c.UserContext(), existing)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganizationResponse(updated)})
}
