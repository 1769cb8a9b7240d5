package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/email-platform/internal/api/dto"
	"github.com/spec-kit/email-platform/internal/auth"
	"github.com/spec-kit/email-platform/internal/service"
)

// DocumentsHandler exposes document endpoints.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documents *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// List handles GET /documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	docs, err := h.documents.ListDocuments(c.UserContext(), actor, limit, offset)
	if err != nil {
		return err
	}
	responses := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, dto.NewDocumentResponse(doc))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get handles GET /documents/:id.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	doc, err := h.documents.GetDocument(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// Delete handles DELETE /documents/:id.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.documents.DeleteDocument(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
