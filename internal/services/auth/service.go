package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
	"bankaccount/internal/repositories/cache"
	"bankaccount/internal/utils"
	"bankaccount/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type Service interface {
	Register(ctx context.Context, input *models.RegisterUserInput, role models.Role) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID uint) error

	// TokenVersion returns the user's current token version. Tokens carrying
	// any other version are revoked.
	TokenVersion(ctx context.Context, userID uint) (int, error)
}

type service struct {
	users    repositories.UserRepository
	tokens   *utils.TokenManager
	versions cache.TokenVersionCache
	logger   *slog.Logger
}

func NewService(users repositories.UserRepository, tokens *utils.TokenManager, versions cache.TokenVersionCache, logger *slog.Logger) Service {
	if versions == nil {
		versions = cache.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		users:    users,
		tokens:   tokens,
		versions: versions,
		logger:   logger.With("service", "auth"),
	}
}

func (s *service) Register(ctx context.Context, input *models.RegisterUserInput, role models.Role) (*models.User, error) {
	v := validation.New()
	v.Password("password", input.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, apperrors.UsernameAlreadyExists(input.Username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Password:     string(hashed),
		Role:         role,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		TokenVersion: 1,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, apperrors.UsernameAlreadyExists(input.Username)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", role)
	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "login failed: unknown username")
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "login failed: incorrect password", "user_id", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", ErrTokenRevoked
	}

	return s.tokens.GenerateTokens(user)
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.UserNotFound(userID)
		}
		return err
	}
	if err := s.versions.InvalidateTokenVersion(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "token version invalidation failed", "user_id", userID, "error", err)
	}
	s.logger.InfoContext(ctx, "user logged out", "user_id", userID)
	return nil
}

func (s *service) TokenVersion(ctx context.Context, userID uint) (int, error) {
	if v, found, err := s.versions.GetTokenVersion(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "token version cache read failed", "user_id", userID, "error", err)
	} else if found {
		return v, nil
	}

	version, err := s.loadTokenVersion(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.versions.SetTokenVersion(ctx, userID, version); err != nil {
		s.logger.WarnContext(ctx, "token version cache write failed", "user_id", userID, "error", err)
		return version, nil
	}

	// A logout committed between the read and the write above may already have
	// cleared the entry, so the cached value must be re-checked against the row.
	current, err := s.loadTokenVersion(ctx, userID)
	if err != nil {
		return 0, err
	}
	if current != version {
		if err := s.versions.InvalidateTokenVersion(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "stale token version left in cache", "user_id", userID, "error", err)
		}
	}
	return current, nil
}

func (s *service) loadTokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, apperrors.UserNotFound(userID)
		}
		return 0, err
	}
	return user.TokenVersion, nil
}
