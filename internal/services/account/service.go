// Package account implements account lifecycle and account-funded money
// movement. Each mutating call runs in one ledger transaction with the touched
// accounts row-locked, and checks run in a fixed order so the first failing
// condition decides the error: existence, same-account, amount, funds, access.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
	"bankaccount/internal/repositories/cache"
	"bankaccount/internal/services/authz"

	"github.com/shopspring/decimal"
)

type service struct {
	store  repositories.LedgerStore
	cache  cache.BalanceCache
	logger *slog.Logger
}

// NewService creates a new account service
func NewService(store repositories.LedgerStore, balances cache.BalanceCache, logger *slog.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if balances == nil {
		balances = cache.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		store:  store,
		cache:  balances,
		logger: logger.With("service", "account"),
	}
}

func (s *service) Create(ctx context.Context, actor authz.Actor, balance decimal.Decimal) (*models.Account, error) {
	if balance.IsNegative() {
		return nil, apperrors.InvalidAmount(balance)
	}

	account := &models.Account{UserID: actor.UserID, Balance: balance}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}
	account.Cards = []models.Card{}

	s.invalidate(ctx, actor.UserID)
	s.logger.InfoContext(ctx, "account created", "account_id", account.ID, "user_id", actor.UserID)
	return account, nil
}

func (s *service) Get(ctx context.Context, actor authz.Actor, id uint) (*models.Account, error) {
	account, err := s.store.Accounts().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	if !actor.CanOperate(account) {
		return nil, apperrors.AccessDenied("see account", id)
	}
	return account, nil
}

func (s *service) ListMine(ctx context.Context, actor authz.Actor) ([]*models.Account, error) {
	return s.store.Accounts().ListByUserID(ctx, actor.UserID)
}

func (s *service) ListAll(ctx context.Context, offset, limit int) ([]*models.Account, int64, error) {
	return s.store.Accounts().List(ctx, offset, limit)
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	var (
		owner   uint
		deleted bool
	)
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		account, err := tx.Accounts().GetByIDForUpdate(ctx, id)
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !actor.CanOperate(account) {
			return apperrors.AccessDenied("delete account", id)
		}

		if _, err := tx.Cards().DeleteByAccountID(ctx, id); err != nil {
			return err
		}
		if err := tx.Accounts().Delete(ctx, id); err != nil {
			return err
		}
		owner, deleted = account.UserID, true
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "account delete failed", "account_id", id, "actor_id", actor.UserID, "error", err)
		return err
	}

	if deleted {
		s.invalidate(ctx, owner)
		s.logger.InfoContext(ctx, "account deleted", "account_id", id, "actor_id", actor.UserID)
	}
	return nil
}

func (s *service) Withdraw(ctx context.Context, actor authz.Actor, amount decimal.Decimal, accountIDFrom uint) error {
	var owner uint
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		locked, err := repositories.LockAccounts(ctx, tx, accountIDFrom)
		if err != nil {
			return err
		}
		from, ok := locked[accountIDFrom]
		if !ok {
			return apperrors.AccountNotFound(accountIDFrom)
		}

		if !amount.IsPositive() {
			return apperrors.InvalidAmount(amount)
		}
		if from.Balance.LessThan(amount) {
			return apperrors.InsufficientFunds(from.ID, from.Balance, amount)
		}
		if !actor.CanOperate(from) {
			return apperrors.AccessDenied("withdraw from account", from.ID)
		}

		from.Balance = from.Balance.Sub(amount)
		owner = from.UserID
		return tx.Accounts().Update(ctx, from)
	})
	s.logOutcome(ctx, "withdraw", err, "actor_id", actor.UserID, "account_id_from", accountIDFrom, "amount", amount.String())
	if err != nil {
		return err
	}

	s.invalidate(ctx, owner)
	return nil
}

func (s *service) Transfer(ctx context.Context, actor authz.Actor, amount decimal.Decimal, accountIDFrom, accountIDTo uint) error {
	var owners []uint
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		locked, err := repositories.LockAccounts(ctx, tx, accountIDFrom, accountIDTo)
		if err != nil {
			return err
		}
		from, ok := locked[accountIDFrom]
		if !ok {
			return apperrors.AccountNotFound(accountIDFrom)
		}
		to, ok := locked[accountIDTo]
		if !ok {
			return apperrors.AccountNotFound(accountIDTo)
		}
		if from.ID == to.ID {
			return apperrors.SameAccount(from.ID)
		}

		if !amount.IsPositive() {
			return apperrors.InvalidAmount(amount)
		}
		if from.Balance.LessThan(amount) {
			return apperrors.InsufficientFunds(from.ID, from.Balance, amount)
		}
		// Only the source is checked; any destination may receive funds.
		if !actor.CanOperate(from) {
			return apperrors.AccessDenied("transfer from account", from.ID)
		}

		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)
		if err := tx.Accounts().Update(ctx, to); err != nil {
			return err
		}
		if err := tx.Accounts().Update(ctx, from); err != nil {
			return err
		}
		owners = []uint{from.UserID, to.UserID}
		return nil
	})
	s.logOutcome(ctx, "transfer", err,
		"actor_id", actor.UserID,
		"account_id_from", accountIDFrom,
		"account_id_to", accountIDTo,
		"amount", amount.String(),
	)
	if err != nil {
		return err
	}

	s.invalidate(ctx, owners...)
	return nil
}

func (s *service) logOutcome(ctx context.Context, op string, err error, attrs ...any) {
	if err == nil {
		s.logger.InfoContext(ctx, op+" completed", attrs...)
		return
	}
	if apperrors.Code(err) != "" {
		s.logger.InfoContext(ctx, op+" rejected", append(attrs, "reason", err.Error())...)
		return
	}
	s.logger.ErrorContext(ctx, op+" failed", append(attrs, "error", err)...)
}

// invalidate drops cached balance totals. Failures are logged only; the entry
// still expires with its TTL.
func (s *service) invalidate(ctx context.Context, userIDs ...uint) {
	if err := s.cache.InvalidateBalance(ctx, userIDs...); err != nil {
		s.logger.WarnContext(ctx, "balance cache invalidation failed", "user_ids", userIDs, "error", err)
	}
}

func mapNotFound(err error, id uint) error {
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return apperrors.AccountNotFound(id)
	}
	return fmt.Errorf("load account %d: %w", id, err)
}
