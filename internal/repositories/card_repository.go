package repositories

import (
	"context"
	"errors"

	"bankaccount/internal/models"
)

var ErrCardNotFound = errors.New("card not found")

// CardRepository defines the card-related database operations
type CardRepository interface {
	// GetByID loads the card together with the account it is linked to.
	GetByID(ctx context.Context, id uint) (*models.Card, error)
	Create(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id uint) error
	DeleteByAccountID(ctx context.Context, accountID uint) (int64, error)
}
