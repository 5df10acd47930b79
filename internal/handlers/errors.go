package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/services/auth"
	"bankaccount/internal/utils"
	"bankaccount/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps a domain error code to its HTTP status.
var statusFor = map[string]int{
	apperrors.CodeAccountNotFound:       fiber.StatusNotFound,
	apperrors.CodeCardNotFound:          fiber.StatusNotFound,
	apperrors.CodeUserNotFound:          fiber.StatusNotFound,
	apperrors.CodeCustomerNotFound:      fiber.StatusNotFound,
	apperrors.CodeInsufficientFunds:     fiber.StatusForbidden,
	apperrors.CodeSameAccount:           fiber.StatusBadRequest,
	apperrors.CodeCardAlreadyPresent:    fiber.StatusBadRequest,
	apperrors.CodeUsernameAlreadyExists: fiber.StatusBadRequest,
	apperrors.CodeInvalidAmount:         fiber.StatusBadRequest,
	apperrors.CodeAccessDenied:          fiber.StatusUnauthorized,
}

// handleError writes the response for a failed service call. Domain errors
// carry their own message; anything else is logged and reported as a 500.
func handleError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var verr *validation.Validator
	if errors.As(err, &verr) {
		return utils.ValidationFailed(c, "validation failed", verr.Errors)
	}
	if errors.Is(err, auth.ErrInvalidCredentials) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrTokenRevoked) {
		return utils.Unauthorized(c, err.Error())
	}

	if status, ok := statusFor[apperrors.Code(err)]; ok {
		return utils.Respond(c, status, fiber.Map{"error": err.Error()})
	}

	logger.ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return utils.InternalError(c, "internal server error")
}

// bind parses the JSON body into dst and checks its validate tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		v := validation.New()
		v.AddError("body", "invalid request body")
		return v
	}
	return validation.Struct(dst).Err()
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		v := validation.New()
		v.AddError(name, "must be a positive integer")
		return 0, v
	}
	return uint(id), nil
}
