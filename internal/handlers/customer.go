package handlers

import (
	"log/slog"

	"bankaccount/internal/models"
	"bankaccount/internal/services/customer"
	"bankaccount/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customers customer.Service
	logger    *slog.Logger
}

func NewCustomerHandler(customers customer.Service, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, logger: logger}
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.CustomerInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	created, err := h.customers.Create(c.UserContext(), actor, &input)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Created(c, created)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}

	found, err := h.customers.Get(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, found)
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var input models.CustomerInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	updated, err := h.customers.Update(c.UserContext(), actor, id, &input)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, updated)
}

func (h *CustomerHandler) AddAccount(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.AddCustomerAccountInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	updated, err := h.customers.AddAccount(c.UserContext(), actor, input.CustomerID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, updated)
}

func (h *CustomerHandler) RemoveAccount(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.Unauthorized(c, err.Error())
	}
	var input models.RemoveCustomerAccountInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	updated, err := h.customers.RemoveAccount(c.UserContext(), actor, input.CustomerID, input.AccountID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Success(c, updated)
}
