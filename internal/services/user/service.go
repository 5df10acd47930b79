package user

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

type Service interface {
	// Current returns the acting user with their accounts and cards.
	Current(ctx context.Context, actor authz.Actor) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)

	// TotalBalance sums the balances of every account the actor owns. A user
	// without accounts has a total of zero.
	TotalBalance(ctx context.Context, actor authz.Actor) (decimal.Decimal, error)
}

type service struct {
	store    repositories.LedgerStore
	balances cache.BalanceCache
	logger   *slog.Logger
}

func NewService(store repositories.LedgerStore, balances cache.BalanceCache, logger *slog.Logger) Service {
	if balances == nil {
		balances = cache.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		store:    store,
		balances: balances,
		logger:   logger.With("service", "user"),
	}
}

func (s *service) Current(ctx context.Context, actor authz.Actor) (*models.User, error) {
	return s.GetByID(ctx, actor.UserID)
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound(id)
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return user, nil
}

func (s *service) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.store.Users().List(ctx, offset, limit)
}

func (s *service) TotalBalance(ctx context.Context, actor authz.Actor) (decimal.Decimal, error) {
	total, found, err := s.balances.GetBalance(ctx, actor.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "balance cache read failed", "user_id", actor.UserID, "error", err)
	} else if found {
		return total, nil
	}

	exists, err := s.store.Users().ExistsByID(ctx, actor.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	if !exists {
		return decimal.Zero, apperrors.UserNotFound(actor.UserID)
	}

	total, err = s.sumBalances(ctx, actor.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.balances.SetBalance(ctx, actor.UserID, total); err != nil {
		s.logger.WarnContext(ctx, "balance cache write failed", "user_id", actor.UserID, "error", err)
		return total, nil
	}

	// Money movements invalidate after commit; one that landed while the sum
	// was running may have done so before the write above.
	current, err := s.sumBalances(ctx, actor.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	if !current.Equal(total) {
		if err := s.balances.InvalidateBalance(ctx, actor.UserID); err != nil {
			s.logger.WarnContext(ctx, "stale balance left in cache", "user_id", actor.UserID, "error", err)
		}
	}
	return current, nil
}

func (s *service) sumBalances(ctx context.Context, userID uint) (decimal.Decimal, error) {
	total, err := s.store.Accounts().SumBalanceByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum balances for user %d: %w", userID, err)
	}
	return total, nil
}
