package card

import (
	"context"

	"bankaccount/internal/models"
	"bankaccount/internal/services/authz"

	"github.com/shopspring/decimal"
)

// Service manages cards and card-funded money movement. Card debits are the
// nominal amount times the card type's fee multiplier.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, accountID uint, cardType models.CardType) (*models.Card, error)
	Remove(ctx context.Context, actor authz.Actor, cardID uint) error

	Withdraw(ctx context.Context, actor authz.Actor, amount decimal.Decimal, cardIDFrom uint) error
	// Transfer credits the destination with the nominal amount; the fee is
	// borne by the card's account alone.
	Transfer(ctx context.Context, actor authz.Actor, amount decimal.Decimal, cardIDFrom, accountIDTo uint) error
}
