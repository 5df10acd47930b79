package repositories

import (
	"context"
	"errors"

	"bankaccount/internal/models"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	// GetByID loads the customer with its accounts.
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	// Update writes the profile fields. It never inserts.
	Update(ctx context.Context, customer *models.Customer) error
}
