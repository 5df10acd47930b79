package card

import (
	"context"
	"errors"
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
		logger: logger.With("service", "card"),
	}
}

func (s *service) Create(ctx context.Context, actor authz.Actor, accountID uint, cardType models.CardType) (*models.Card, error) {
	var card *models.Card
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		// The lock serializes concurrent creates on the same account.
		account, err := tx.Accounts().GetByIDForUpdate(ctx, accountID)
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.AccountNotFound(accountID)
		}
		if err != nil {
			return err
		}
		if !actor.CanOperate(account) {
			return apperrors.AccessDenied("create card for account", accountID)
		}
		if account.HasCard() {
			return apperrors.CardAlreadyPresent(accountID)
		}

		card = &models.Card{AccountID: accountID, Type: cardType}
		return tx.Cards().Create(ctx, card)
	})
	if err != nil {
		s.logger.InfoContext(ctx, "card create rejected", "account_id", accountID, "actor_id", actor.UserID, "reason", err.Error())
		return nil, err
	}

	s.logger.InfoContext(ctx, "card created", "card_id", card.ID, "account_id", accountID, "type", cardType)
	return card, nil
}

func (s *service) Remove(ctx context.Context, actor authz.Actor, cardID uint) error {
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		card, err := s.loadCard(ctx, tx, cardID)
		if err != nil {
			return err
		}
		if !actor.CanOperate(card.Account) {
			return apperrors.AccessDenied("remove card with id", cardID)
		}
		return tx.Cards().Delete(ctx, cardID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "card removed", "card_id", cardID, "actor_id", actor.UserID)
	return nil
}

func (s *service) Withdraw(ctx context.Context, actor authz.Actor, amount decimal.Decimal, cardIDFrom uint) error {
	var owner uint
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		card, err := s.loadCard(ctx, tx, cardIDFrom)
		if err != nil {
			return err
		}
		locked, err := repositories.LockAccounts(ctx, tx, card.AccountID)
		if err != nil {
			return err
		}
		from, ok := locked[card.AccountID]
		if !ok {
			return apperrors.AccountNotFound(card.AccountID)
		}

		if !amount.IsPositive() {
			return apperrors.InvalidAmount(amount)
		}
		debit := card.Type.Debit(amount)
		if from.Balance.LessThan(debit) {
			return apperrors.InsufficientFunds(from.ID, from.Balance, amount)
		}
		if !actor.CanOperate(from) {
			return apperrors.AccessDenied("withdraw from card", cardIDFrom)
		}

		from.Balance = from.Balance.Sub(debit)
		owner = from.UserID
		return tx.Accounts().Update(ctx, from)
	})
	s.logOutcome(ctx, "card withdraw", err, "actor_id", actor.UserID, "card_id_from", cardIDFrom, "amount", amount.String())
	if err != nil {
		return err
	}

	s.invalidate(ctx, owner)
	return nil
}

func (s *service) Transfer(ctx context.Context, actor authz.Actor, amount decimal.Decimal, cardIDFrom, accountIDTo uint) error {
	var owners []uint
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		card, err := s.loadCard(ctx, tx, cardIDFrom)
		if err != nil {
			return err
		}
		locked, err := repositories.LockAccounts(ctx, tx, card.AccountID, accountIDTo)
		if err != nil {
			return err
		}
		from, ok := locked[card.AccountID]
		if !ok {
			return apperrors.AccountNotFound(card.AccountID)
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
		debit := card.Type.Debit(amount)
		if from.Balance.LessThan(debit) {
			return apperrors.InsufficientFunds(from.ID, from.Balance, amount)
		}
		if !actor.CanOperate(from) {
			return apperrors.AccessDenied("transfer from account", from.ID)
		}

		from.Balance = from.Balance.Sub(debit)
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
	s.logOutcome(ctx, "card transfer", err,
		"actor_id", actor.UserID,
		"card_id_from", cardIDFrom,
		"account_id_to", accountIDTo,
		"amount", amount.String(),
	)
	if err != nil {
		return err
	}

	s.invalidate(ctx, owners...)
	return nil
}

func (s *service) loadCard(ctx context.Context, tx repositories.LedgerStore, id uint) (*models.Card, error) {
	card, err := tx.Cards().GetByID(ctx, id)
	if errors.Is(err, repositories.ErrCardNotFound) {
		return nil, apperrors.CardNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *service) logOutcome(ctx context.Context, op string, err error, attrs ...any) {
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, op+" completed", attrs...)
	case apperrors.Code(err) != "":
		s.logger.InfoContext(ctx, op+" rejected", append(attrs, "reason", err.Error())...)
	default:
		s.logger.ErrorContext(ctx, op+" failed", append(attrs, "error", err)...)
	}
}

func (s *service) invalidate(ctx context.Context, userIDs ...uint) {
	if err := s.cache.InvalidateBalance(ctx, userIDs...); err != nil {
		s.logger.WarnContext(ctx, "balance cache invalidation failed", "user_ids", userIDs, "error", err)
	}
}
