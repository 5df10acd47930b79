package repositories

import (
	"context"
	"errors"

	"bankaccount/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidPage     = errors.New("invalid page")
)

// AccountRepository defines the account-related database operations
type AccountRepository interface {
	// GetByID loads the account with its cards.
	GetByID(ctx context.Context, id uint) (*models.Account, error)

	// GetByIDForUpdate loads the account with its cards and holds a row lock
	// until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Account, error)

	ListByUserID(ctx context.Context, userID uint) ([]*models.Account, error)
	List(ctx context.Context, offset, limit int) ([]*models.Account, int64, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error

	// SumBalanceByUserID returns the total balance over all accounts of a user.
	SumBalanceByUserID(ctx context.Context, userID uint) (decimal.Decimal, error)
}
