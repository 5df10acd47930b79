package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bankaccount/internal/models"
	"bankaccount/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store repositories.LedgerStore, userID uint, balance int64) *models.Account {
	t.Helper()
	a := &models.Account{UserID: userID, Balance: decimal.NewFromInt(balance)}
	require.NoError(t, store.Accounts().Create(context.Background(), a))
	return a
}

func TestStore_TransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()
	a := seedAccount(t, ledger, 1, 100)

	boom := errors.New("boom")
	err := ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		locked, err := tx.Accounts().GetByIDForUpdate(ctx, a.ID)
		require.NoError(t, err)
		locked.Balance = decimal.Zero
		require.NoError(t, tx.Accounts().Update(ctx, locked))
		require.NoError(t, tx.Cards().Create(ctx, &models.Card{AccountID: a.ID, Type: models.CardTypeDebit}))

		inside, err := tx.Accounts().GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, inside.Balance.IsZero())
		assert.Len(t, inside.Cards, 1)
		return boom
	})
	require.ErrorIs(t, err, boom)

	after, err := ledger.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, after.Cards)
}

func TestStore_TransactionCommits(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()
	a := seedAccount(t, ledger, 1, 100)

	err := ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		acc, err := tx.Accounts().GetByIDForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		acc.Balance = acc.Balance.Sub(decimal.NewFromInt(40))
		return tx.Accounts().Update(ctx, acc)
	})
	require.NoError(t, err)

	total, err := ledger.Accounts().SumBalanceByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(60)))
}

func TestStore_ConcurrentTransactionsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()
	a := seedAccount(t, ledger, 1, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
				acc, err := tx.Accounts().GetByIDForUpdate(ctx, a.ID)
				if err != nil {
					return err
				}
				acc.Balance = acc.Balance.Add(decimal.NewFromInt(1))
				return tx.Accounts().Update(ctx, acc)
			})
		}()
	}
	wg.Wait()

	got, err := ledger.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)), "balance %s", got.Balance)
}

func TestStore_NotFoundSentinels(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()

	_, err := ledger.Accounts().GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrAccountNotFound)
	_, err = ledger.Cards().GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrCardNotFound)
	_, err = ledger.Users().GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = ledger.Customers().GetByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrCustomerNotFound)
	assert.ErrorIs(t, ledger.Accounts().Delete(ctx, 99), repositories.ErrAccountNotFound)
}

func TestStore_UsersAndAudit(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()

	u := &models.User{Username: "alice", Password: "hash", Role: models.RoleUser}
	require.NoError(t, ledger.Users().Create(ctx, u))
	assert.Equal(t, 1, u.TokenVersion)
	assert.ErrorIs(t, ledger.Users().Create(ctx, &models.User{Username: "alice"}), repositories.ErrUsernameTaken)

	exists, err := ledger.Users().ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, ledger.Users().IncrementTokenVersion(ctx, u.ID))
	got, err := ledger.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TokenVersion)

	for i := 0; i < 3; i++ {
		require.NoError(t, ledger.Audit().Append(ctx, &models.AuditPost{UserID: u.ID, Operation: "op", Result: models.AuditResultOk}))
	}
	require.NoError(t, ledger.Audit().Append(ctx, &models.AuditPost{UserID: 42, Operation: "op"}))

	posts, total, err := ledger.Audit().List(ctx, 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, posts, 2)

	mine, err := ledger.Audit().ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	_, _, err = ledger.Audit().List(ctx, -1, 10)
	assert.ErrorIs(t, err, repositories.ErrInvalidPage)
}

func TestStore_CustomerAccounts(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()

	c := &models.Customer{UserID: 1, FirstName: "Ann", LastName: "Lee"}
	require.NoError(t, ledger.Customers().Create(ctx, c))
	a := seedAccount(t, ledger, 1, 10)
	a.CustomerID = &c.ID
	require.NoError(t, ledger.Accounts().Update(ctx, a))

	got, err := ledger.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Accounts, 1)
	assert.Equal(t, a.ID, got.Accounts[0].ID)
}
