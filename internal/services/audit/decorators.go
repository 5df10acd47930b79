package audit

import (
	"context"

	"bankaccount/internal/services/account"
	"bankaccount/internal/services/authz"
	"bankaccount/internal/services/card"

	"github.com/shopspring/decimal"
)

type auditedAccounts struct {
	account.Service
	rec *Recorder
}

// WrapAccounts returns svc with Withdraw and Transfer recorded. All other
// methods pass through untouched.
func WrapAccounts(svc account.Service, rec *Recorder) account.Service {
	return &auditedAccounts{Service: svc, rec: rec}
}

func (a *auditedAccounts) Withdraw(ctx context.Context, actor authz.Actor, amount decimal.Decimal, accountIDFrom uint) error {
	args := []Arg{{"amount", amount}, {"account_id_from", accountIDFrom}}
	return a.rec.Record(ctx, actor, OpAccountWithdrawal, args, func() error {
		return a.Service.Withdraw(ctx, actor, amount, accountIDFrom)
	})
}

func (a *auditedAccounts) Transfer(ctx context.Context, actor authz.Actor, amount decimal.Decimal, accountIDFrom, accountIDTo uint) error {
	args := []Arg{{"amount", amount}, {"account_id_from", accountIDFrom}, {"account_id_to", accountIDTo}}
	return a.rec.Record(ctx, actor, OpAccountTransfer, args, func() error {
		return a.Service.Transfer(ctx, actor, amount, accountIDFrom, accountIDTo)
	})
}

type auditedCards struct {
	card.Service
	rec *Recorder
}

// WrapCards returns svc with Withdraw and Transfer recorded.
func WrapCards(svc card.Service, rec *Recorder) card.Service {
	return &auditedCards{Service: svc, rec: rec}
}

func (c *auditedCards) Withdraw(ctx context.Context, actor authz.Actor, amount decimal.Decimal, cardIDFrom uint) error {
	args := []Arg{{"amount", amount}, {"card_id_from", cardIDFrom}}
	return c.rec.Record(ctx, actor, OpCardWithdrawal, args, func() error {
		return c.Service.Withdraw(ctx, actor, amount, cardIDFrom)
	})
}

func (c *auditedCards) Transfer(ctx context.Context, actor authz.Actor, amount decimal.Decimal, cardIDFrom, accountIDTo uint) error {
	args := []Arg{{"amount", amount}, {"card_id_from", cardIDFrom}, {"account_id_to", accountIDTo}}
	return c.rec.Record(ctx, actor, OpCardTransfer, args, func() error {
		return c.Service.Transfer(ctx, actor, amount, cardIDFrom, accountIDTo)
	})
}
