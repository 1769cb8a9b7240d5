package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/email-platform/internal/api/dto"
	"github.com/spec-kit/email-platform/internal/auth"
	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/service"
)

// AccountsHandler exposes email account endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Link handles POST /accounts.
func (h *AccountsHandler) Link(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.EmailAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EmailAddress == "" || req.Provider == "" {
		return fiber.NewError(http.StatusBadRequest, "email_address and provider required")
	}

	account := accountFromRequest(&req)
	created, err := h.accounts.LinkAccount(c.UserContext(), actor, account)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmailAccountResponse(created)})
}

// List handles GET /accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	accounts, err := h.accounts.ListAccounts(c.UserContext(), actor)
	if err != nil {
		return err
	}
	responses := make([]dto.EmailAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, dto.NewEmailAccountResponse(account))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /accounts/:id.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	account, err := h.accounts.GetAccount(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmailAccountResponse(account)})
}

// Update handles PUT /accounts/:id.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.EmailAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account := accountFromRequest(&req)
	account.ID = c.Params("id")
	updated, err := h.accounts.UpdateAccount(c.UserContext(), actor, account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmailAccountResponse(updated)})
}

// Unlink handles DELETE /accounts/:id.
func (h *AccountsHandler) Unlink(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.accounts.UnlinkAccount(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListEmails handles GET /accounts/:id/emails.
func (h *AccountsHandler) ListEmails(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	emails, err := h.accounts.ListEmails(c.UserContext(), actor, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	responses := make([]dto.EmailResponse, 0, len(emails))
	for _, email := range emails {
		responses = append(responses, dto.NewEmailResponse(email))
	}
	return c.JSON(fiber.Map{"data": responses})
}

func accountFromRequest(req *dto.EmailAccountRequest) *domain.EmailAccount {
	account := &domain.EmailAccount{
		EmailAddress:           req.EmailAddress,
		DisplayName:            req.DisplayName,
		Provider:               domain.EmailProvider(req.Provider),
		IMAPServer:             req.IMAPServer,
		IMAPPort:               req.IMAPPort,
		IMAPUsername:           req.IMAPUsername,
		SMTPServer:             req.SMTPServer,
		SMTPPort:               req.SMTPPort,
		SMTPUsername:           req.SMTPUsername,
		AutoProcess:            true,
		ProcessIntervalMinutes: req.ProcessIntervalMinutes,
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	} else {
		account.IsActive = true
	}
	if req.AutoProcess != nil {
		account.AutoProcess = *req.AutoProcess
	}
	return account
}
