// Command admin_seed creates the first ADMIN user in the configured database.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"bankaccount/internal/config"
	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
	"bankaccount/internal/services/auth"
	"bankaccount/internal/utils"
	"bankaccount/internal/validation"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger.NewLogger()

	input := &models.RegisterUserInput{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Email:    os.Getenv("ADMIN_EMAIL"),
	}
	if v := validation.Struct(input); !v.Valid() {
		logger.Error("ADMIN_USERNAME and ADMIN_PASSWORD must be set", "errors", v.Error())
		os.Exit(1)
	}

	if cfg.Database.Driver != config.DriverPostgres {
		logger.Error("admin seeding needs a persistent store", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	db, err := repositories.OpenPostgres(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			logger.Warn("failed to close database connection", "error", err)
		}
	}()

	store := repositories.NewLedgerStore(db)
	authService := auth.NewService(store.Users(), utils.NewTokenManager(&cfg.Auth), nil, logger)

	admin, err := authService.Register(context.Background(), input, models.RoleAdmin)
	if errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
		logger.Info("admin user already exists", "username", input.Username)
		return
	}
	if err != nil {
		logger.Error("failed to create admin user", "error", err)
		os.Exit(1)
	}

	logger.Info("admin account created", "user_id", admin.ID, "username", admin.Username)
}
