// Package routes defines the API routing configuration.
// It builds the services over a ledger store, wraps the money-movement services
// with the audit recorder and mounts every handler.
package routes

import (
	"log/slog"
	"time"

	"bankaccount/internal/config"
	"bankaccount/internal/handlers"
	"bankaccount/internal/middleware"
	"bankaccount/internal/repositories"
	"bankaccount/internal/repositories/cache"
	"bankaccount/internal/services/account"
	"bankaccount/internal/services/audit"
	"bankaccount/internal/services/auth"
	"bankaccount/internal/services/card"
	"bankaccount/internal/services/customer"
	"bankaccount/internal/services/user"
	"bankaccount/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Config *config.Config
	Store  repositories.LedgerStore
	Cache  cache.Cache
	Health map[string]handlers.HealthChecker
	Logger *slog.Logger
}

// NewApp creates the fiber app with the global middleware installed.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bankaccount",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	if cfg.Server.AuthRateLimit > 0 {
		authLimiter := limiter.New(limiter.Config{
			Max:        cfg.Server.AuthRateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		})
		app.Use("/api/auth/login", authLimiter)
		app.Use("/api/auth/register", authLimiter)
	}

	return app
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, d Deps) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	caches := d.Cache
	if caches == nil {
		caches = cache.NoopCache{}
	}

	// Services
	recorder := audit.NewRecorder(d.Store.Audit(), log)
	accountService := audit.WrapAccounts(account.NewService(d.Store, caches, log), recorder)
	cardService := audit.WrapCards(card.NewService(d.Store, caches, log), recorder)
	auditService := audit.NewService(d.Store)
	userService := user.NewService(d.Store, caches, log)
	customerService := customer.NewService(d.Store, accountService, caches, log)

	tokens := utils.NewTokenManager(&d.Config.Auth)
	authService := auth.NewService(d.Store.Users(), tokens, caches, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, d.Config, log)
	accountHandler := handlers.NewAccountHandler(accountService, log)
	cardHandler := handlers.NewCardHandler(cardService, log)
	auditHandler := handlers.NewAuditHandler(auditService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	customerHandler := handlers.NewCustomerHandler(customerService, log)
	healthHandler := handlers.NewHealthHandler(d.Health)

	authMiddleware := middleware.NewAuthMiddleware(tokens, authService, log)
	protected := authMiddleware.Handler
	adminOnly := middleware.AdminAuthMiddleware

	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.LoginUser)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/register-admin", protected, adminOnly, authHandler.RegisterAdmin)

	api.Post("/logout", protected, authHandler.LogoutUser)

	users := api.Group("/user", protected)
	users.Get("/", userHandler.GetCurrentUser)
	users.Get("/balance", userHandler.GetBalance)
	users.Get("/all", adminOnly, userHandler.GetUsersPaginated)
	users.Get("/:id", adminOnly, userHandler.GetUser)

	accounts := api.Group("/account", protected)
	accounts.Get("/", accountHandler.GetMyAccounts)
	accounts.Get("/all", adminOnly, accountHandler.GetAllAccounts)
	accounts.Post("/", accountHandler.CreateAccount)
	accounts.Post("/withdraw", accountHandler.Withdraw)
	accounts.Post("/transfer", accountHandler.Transfer)
	accounts.Get("/:id", accountHandler.GetAccount)
	accounts.Delete("/:id", accountHandler.DeleteAccount)

	cards := api.Group("/card", protected)
	cards.Put("/", cardHandler.CreateCard)
	cards.Post("/withdraw", cardHandler.Withdraw)
	cards.Post("/transfer", cardHandler.Transfer)
	cards.Delete("/:id", cardHandler.RemoveCard)

	customers := api.Group("/customer", protected)
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Put("/add-account", customerHandler.AddAccount)
	customers.Delete("/remove-account", customerHandler.RemoveAccount)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)

	audits := api.Group("/audit", protected, adminOnly)
	audits.Get("/", auditHandler.GetAll)
	audits.Get("/:id", auditHandler.GetForUser)
}
