package handlers

import (
	"log/slog"

	"bankaccount/internal/services/audit"
	"bankaccount/internal/utils"
	"bankaccount/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler serves the audit trail to admins.
type AuditHandler struct {
	audit  audit.Service
	logger *slog.Logger
}

func NewAuditHandler(svc audit.Service, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{audit: svc, logger: logger}
}

func (h *AuditHandler) GetAll(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	posts, total, err := h.audit.List(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, posts))
}

// GetForUser lists the posts recorded against user :id.
func (h *AuditHandler) GetForUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}

	posts, err := h.audit.ListForUser(c.UserContext(), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"data": posts})
}
