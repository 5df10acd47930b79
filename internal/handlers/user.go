package handlers

import (
	"log/slog"

	"bankaccount/internal/services/user"
	"bankaccount/internal/utils"
	"bankaccount/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users  user.Service
	logger *slog.Logger
}

func NewUserHandler(users user.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// GetCurrentUser returns the caller with their accounts and cards.
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}

	u, err := h.users.Current(c.UserContext(), actor)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, u)
}

// GetBalance returns the sum of the caller's account balances.
func (h *UserHandler) GetBalance(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}

	total, err := h.users.TotalBalance(c.UserContext(), actor)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"balance": total})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}

	u, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) GetUsersPaginated(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	users, total, err := h.users.List(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, users))
}
