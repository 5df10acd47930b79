// Package middleware provides HTTP middleware components for the application.
// It includes authentication and role checks used with the fiber web framework.
package middleware

import (
	"context"
	"log/slog"
	"strings"

	"bankaccount/internal/models"
	"bankaccount/internal/services/authz"

	"github.com/gofiber/fiber/v2"
)

// Keys under which the verified identity is stored in fiber Locals.
const (
	LocalsClaims = "claims"
	LocalsUserID = "userID"
	LocalsActor  = "actor"
)

// TokenParser validates an access token.
type TokenParser interface {
	ParseAccessToken(token string) (*models.UserClaims, error)
}

// TokenVersions reports the current token version of a user.
type TokenVersions interface {
	TokenVersion(ctx context.Context, userID uint) (int, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	tokens   TokenParser
	versions TokenVersions
	logger   *slog.Logger
}

func NewAuthMiddleware(tokens TokenParser, versions TokenVersions, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		tokens:   tokens,
		versions: versions,
		logger:   logger.With("middleware", "auth"),
	}
}

// Handler validates the bearer token (or the access_token cookie) and stores
// the claims and the resolved actor on the request. Tokens issued before the
// user's last logout are rejected.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	claims, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		m.logger.InfoContext(c.UserContext(), "token validation failed", "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.versions.TokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		m.logger.InfoContext(c.UserContext(), "token version lookup failed", "user_id", claims.UserID, "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.TokenVersion != currentVersion {
		m.logger.InfoContext(c.UserContext(), "token version mismatch",
			"user_id", claims.UserID, "token_version", claims.TokenVersion, "current_version", currentVersion)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals(LocalsClaims, claims)
	c.Locals(LocalsUserID, claims.UserID)
	c.Locals(LocalsActor, authz.FromClaims(claims))

	return c.Next()
}

// AdminAuthMiddleware lets through only requests whose claims imply ADMIN.
// It must run after AuthMiddleware.Handler.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := c.Locals(LocalsClaims).(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}
	if !claims.HasRole(models.RoleAdmin) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin role required"})
	}
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies("access_token"); cookie != "" {
			return cookie, true
		}
		return "", false
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
