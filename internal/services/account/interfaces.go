package account

import (
	"context"

	"bankaccount/internal/models"
	"bankaccount/internal/services/authz"

	"github.com/shopspring/decimal"
)

// Service defines the account operations. Every method takes the acting
// identity explicitly.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, balance decimal.Decimal) (*models.Account, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (*models.Account, error)
	ListMine(ctx context.Context, actor authz.Actor) ([]*models.Account, error)
	ListAll(ctx context.Context, offset, limit int) ([]*models.Account, int64, error)

	// Delete is a silent no-op when the account does not exist.
	Delete(ctx context.Context, actor authz.Actor, id uint) error

	// Money movement
	Withdraw(ctx context.Context, actor authz.Actor, amount decimal.Decimal, accountIDFrom uint) error
	Transfer(ctx context.Context, actor authz.Actor, amount decimal.Decimal, accountIDFrom, accountIDTo uint) error
}
