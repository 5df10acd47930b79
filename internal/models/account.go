package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a balance owned by exactly one user. The owner never changes after
// creation; money movement only touches Balance.
type Account struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"-"`
	CustomerID *uint           `gorm:"index" json:"customer_id,omitempty"`
	Balance    decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"balance"`
	Cards      []Card          `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"cards"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// HasCard reports whether a card is already linked to the account.
func (a *Account) HasCard() bool {
	return len(a.Cards) > 0
}

// CreateAccountInput is the payload for opening an account.
type CreateAccountInput struct {
	Balance decimal.Decimal `json:"balance"`
}

// WithdrawInput is the payload for an account withdrawal.
type WithdrawInput struct {
	Amount        decimal.Decimal `json:"amount"`
	AccountIDFrom uint            `json:"account_id_from" validate:"required"`
}

// TransferInput is the payload for an account-to-account transfer.
type TransferInput struct {
	Amount        decimal.Decimal `json:"amount"`
	AccountIDFrom uint            `json:"account_id_from" validate:"required"`
	AccountIDTo   uint            `json:"account_id_to" validate:"required"`
}
