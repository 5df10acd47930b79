package handlers

import (
	"log/slog"

	"bankaccount/internal/models"
	"bankaccount/internal/services/card"
	"bankaccount/internal/utils"
	"bankaccount/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cards  card.Service
	logger *slog.Logger
}

func NewCardHandler(cards card.Service, logger *slog.Logger) *CardHandler {
	return &CardHandler{cards: cards, logger: logger}
}

// CreateCard links a new card to an account. An account holds at most one card.
func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.CreateCardInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}
	v := validation.New()
	cardType := v.CardType("card_type", input.CardType)
	if err := v.Err(); err != nil {
		return handleError(c, h.logger, err)
	}

	created, err := h.cards.Create(c.UserContext(), actor, input.AccountID, cardType)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Created(c, created)
}

func (h *CardHandler) RemoveCard(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}

	if err := h.cards.Remove(c.UserContext(), actor, id); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Card removed"})
}

func (h *CardHandler) Withdraw(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.CardWithdrawInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	if err := h.cards.Withdraw(c.UserContext(), actor, input.Amount, input.CardIDFrom); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Withdrawal completed"})
}

func (h *CardHandler) Transfer(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.CardTransferInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	if err := h.cards.Transfer(c.UserContext(), actor, input.Amount, input.CardIDFrom, input.AccountIDTo); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Transfer completed"})
}
