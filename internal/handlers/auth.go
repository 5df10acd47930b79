package handlers

import (
	"log/slog"
	"time"

	"bankaccount/internal/config"
	"bankaccount/internal/models"
	"bankaccount/internal/services/auth"
	"bankaccount/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService   auth.Service
	secure        bool
	accessMaxAge  int
	refreshMaxAge int
	logger        *slog.Logger
}

func NewAuthHandler(authService auth.Service, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secure:        cfg.IsProduction(),
		accessMaxAge:  int(cfg.Auth.AccessTTL / time.Second),
		refreshMaxAge: int(cfg.Auth.RefreshTTL / time.Second),
		logger:        logger,
	}
}

// Register creates a USER account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	return h.register(c, models.RoleUser)
}

// RegisterAdmin creates an ADMIN account. The route is admin only.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	return h.register(c, models.RoleAdmin)
}

func (h *AuthHandler) register(c *fiber.Ctx, role models.Role) error {
	var input models.RegisterUserInput
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	user, err := h.authService.Register(c.UserContext(), &input, role)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.Created(c, user)
}

// LoginUser handles user authentication and returns JWT tokens
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := bind(c, &input); err != nil {
		return handleError(c, h.logger, err)
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	// First try to get token from cookies
	refreshToken := c.Cookies("refresh_token")

	// If not in cookies, try request body
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err != nil {
			return utils.Unauthorized(c, "Refresh token not provided")
		}
		refreshToken = input.RefreshToken
	}
	if refreshToken == "" {
		return utils.Unauthorized(c, "Refresh token not provided")
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken)

	return utils.Success(c, fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser revokes every token issued to the caller.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		return handleError(c, h.logger, err)
	}

	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   h.secure,
			Path:     "/",
		})
	}

	return utils.Success(c, fiber.Map{
		"message": "Successfully logged out",
	})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   h.secure,
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   h.accessMaxAge,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   h.secure,
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   h.refreshMaxAge,
	})
}
