// Package customer manages customer profiles and the accounts opened under them.
package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
	"bankaccount/internal/repositories/cache"
	"bankaccount/internal/services/account"
	"bankaccount/internal/services/authz"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, actor authz.Actor, input *models.CustomerInput) (*models.Customer, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (*models.Customer, error)
	Update(ctx context.Context, actor authz.Actor, id uint, input *models.CustomerInput) (*models.Customer, error)

	// AddAccount opens a zero-balance account for the customer, owned by the
	// user the customer belongs to.
	AddAccount(ctx context.Context, actor authz.Actor, customerID uint) (*models.Customer, error)

	// RemoveAccount deletes the account through the account service and returns
	// the customer as it stands afterwards.
	RemoveAccount(ctx context.Context, actor authz.Actor, customerID, accountID uint) (*models.Customer, error)
}

type service struct {
	store    repositories.LedgerStore
	accounts account.Service
	balances cache.BalanceCache
	logger   *slog.Logger
}

func NewService(store repositories.LedgerStore, accounts account.Service, balances cache.BalanceCache, logger *slog.Logger) Service {
	if balances == nil {
		balances = cache.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		store:    store,
		accounts: accounts,
		balances: balances,
		logger:   logger.With("service", "customer"),
	}
}

func (s *service) Create(ctx context.Context, actor authz.Actor, input *models.CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		UserID:    actor.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}
	if err := s.store.Customers().Create(ctx, customer); err != nil {
		return nil, err
	}
	customer.Accounts = []models.Account{}

	s.logger.InfoContext(ctx, "customer created", "customer_id", customer.ID, "user_id", actor.UserID)
	return customer, nil
}

func (s *service) Get(ctx context.Context, actor authz.Actor, id uint) (*models.Customer, error) {
	return s.load(ctx, s.store, actor, "see customer", id)
}

func (s *service) Update(ctx context.Context, actor authz.Actor, id uint, input *models.CustomerInput) (*models.Customer, error) {
	var updated *models.Customer
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		customer, err := s.load(ctx, tx, actor, "update customer", id)
		if err != nil {
			return err
		}
		customer.FirstName = input.FirstName
		customer.LastName = input.LastName
		customer.Email = input.Email
		if err := tx.Customers().Update(ctx, customer); err != nil {
			return mapNotFound(err, id)
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AddAccount(ctx context.Context, actor authz.Actor, customerID uint) (*models.Customer, error) {
	var owner uint
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		customer, err := s.load(ctx, tx, actor, "add account to customer", customerID)
		if err != nil {
			return err
		}
		owner = customer.UserID
		return tx.Accounts().Create(ctx, &models.Account{
			UserID:     customer.UserID,
			CustomerID: &customer.ID,
			Balance:    decimal.Zero,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.balances.InvalidateBalance(ctx, owner); err != nil {
		s.logger.WarnContext(ctx, "balance cache invalidation failed", "user_ids", []uint{owner}, "error", err)
	}
	s.logger.InfoContext(ctx, "customer account added", "customer_id", customerID, "actor_id", actor.UserID)
	return s.Get(ctx, actor, customerID)
}

func (s *service) RemoveAccount(ctx context.Context, actor authz.Actor, customerID, accountID uint) (*models.Customer, error) {
	if _, err := s.Get(ctx, actor, customerID); err != nil {
		return nil, err
	}
	if err := s.accounts.Delete(ctx, actor, accountID); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, customerID)
}

func (s *service) load(ctx context.Context, store repositories.LedgerStore, actor authz.Actor, action string, id uint) (*models.Customer, error) {
	customer, err := store.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	if !customer.OwnedBy(actor.UserID) && !actor.IsAdmin() {
		return nil, apperrors.AccessDenied(action, id)
	}
	return customer, nil
}

func mapNotFound(err error, id uint) error {
	if errors.Is(err, repositories.ErrCustomerNotFound) {
		return apperrors.CustomerNotFound(id)
	}
	return fmt.Errorf("load customer %d: %w", id, err)
}
