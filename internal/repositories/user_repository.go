package repositories

import (
	"context"
	"errors"

	"bankaccount/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user with their accounts
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByUsername retrieves a user by login name
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List retrieves users with pagination
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)

	// IncrementTokenVersion increments the user's token version, revoking every
	// token issued before the call.
	IncrementTokenVersion(ctx context.Context, userID uint) error
}
