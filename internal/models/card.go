package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CardType is the closed set of card kinds. Each kind maps to a fee multiplier
// applied to card-initiated debits.
type CardType string

const (
	CardTypeDebit  CardType = "DEBIT"
	CardTypeCredit CardType = "CREDIT"
)

var cardFees = map[CardType]decimal.Decimal{
	CardTypeDebit:  decimal.RequireFromString("1.00"),
	CardTypeCredit: decimal.RequireFromString("1.01"),
}

// ParseCardType accepts DEBIT/CREDIT case-insensitively, with or without a
// _CARD suffix.
func ParseCardType(s string) (CardType, error) {
	t := CardType(strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), "_CARD"))
	if _, ok := cardFees[t]; !ok {
		return "", fmt.Errorf("unknown card type: %q", s)
	}
	return t, nil
}

// Fee returns the multiplier for t. Unknown types carry no fee.
func (t CardType) Fee() decimal.Decimal {
	if fee, ok := cardFees[t]; ok {
		return fee
	}
	return decimal.NewFromInt(1)
}

// Debit is the amount taken from the source account for a nominal amount.
func (t CardType) Debit(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(t.Fee())
}

// Card belongs to exactly one account.
type Card struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Account   *Account  `gorm:"foreignKey:AccountID" json:"-"`
	Type      CardType  `gorm:"type:varchar(16);not null" json:"card_type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCardInput links a new card to an account.
type CreateCardInput struct {
	AccountID uint   `json:"account_id" validate:"required"`
	CardType  string `json:"card_type" validate:"required"`
}

// CardWithdrawInput is the payload for a card withdrawal.
type CardWithdrawInput struct {
	Amount     decimal.Decimal `json:"amount"`
	CardIDFrom uint            `json:"card_id_from" validate:"required"`
}

// CardTransferInput is the payload for a card-funded transfer.
type CardTransferInput struct {
	Amount      decimal.Decimal `json:"amount"`
	CardIDFrom  uint            `json:"card_id_from" validate:"required"`
	AccountIDTo uint            `json:"account_id_to" validate:"required"`
}
