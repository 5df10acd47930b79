package handlers

import (
	"log/slog"

	"bankaccount/internal/models"
	"bankaccount/internal/services/account"
	"bankaccount/internal/utils"
	"bankaccount/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	accounts account.Service
	logger   *slog.Logger
}

func NewAccountHandler(accounts account.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// GetMyAccounts lists the caller's accounts with their cards.
func (h *AccountHandler) GetMyAccounts(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}

	accounts, err := h.accounts.ListMine(c.UserContext(), actor)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"data": accounts})
}

// GetAllAccounts is admin only.
func (h *AccountHandler) GetAllAccounts(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	accounts, total, err := h.accounts.ListAll(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, accounts))
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}

	acc, err := h.accounts.Get(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, acc)
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.CreateAccountInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	acc, err := h.accounts.Create(c.UserContext(), actor, input.Balance)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Created(c, acc)
}

// DeleteAccount answers 200 whether or not the account existed.
func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}

	if err := h.accounts.Delete(c.UserContext(), actor, id); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Account removed"})
}

func (h *AccountHandler) Withdraw(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.WithdrawInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	if err := h.accounts.Withdraw(c.UserContext(), actor, input.Amount, input.AccountIDFrom); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Withdrawal completed"})
}

func (h *AccountHandler) Transfer(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.TransferInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	if err := h.accounts.Transfer(c.UserContext(), actor, input.Amount, input.AccountIDFrom, input.AccountIDTo); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Transfer completed"})
}
