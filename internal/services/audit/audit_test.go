package audit

import (
	"context"
	"errors"
	"testing"

	"bankaccount/internal/config"
	apperrors "bankaccount/internal/errors"
	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
	"bankaccount/internal/repositories/memory"
	"bankaccount/internal/services/account"
	"bankaccount/internal/services/authz"
	"bankaccount/internal/services/card"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, post *models.AuditPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, offset, limit int) ([]*models.AuditPost, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]*models.AuditPost), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.AuditPost, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.AuditPost), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    repositories.LedgerStore
	accounts account.Service
	cards    card.Service
	audit    Service
	alice    authz.Actor
	admin    authz.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore().Ledger()
	logger := config.DiscardLogger()
	rec := NewRecorder(store.Audit(), logger)

	alice := &models.User{Username: "alice", Role: models.RoleUser}
	root := &models.User{Username: "root", Role: models.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, alice))
	require.NoError(t, store.Users().Create(ctx, root))

	return &fixture{
		store:    store,
		accounts: WrapAccounts(account.NewService(store, nil, logger), rec),
		cards:    WrapCards(card.NewService(store, nil, logger), rec),
		audit:    NewService(store),
		alice:    authz.Actor{UserID: alice.ID, Role: alice.Role},
		admin:    authz.Actor{UserID: root.ID, Role: root.Role},
	}
}

func (f *fixture) account(t *testing.T, owner uint, balance string) *models.Account {
	t.Helper()
	a := &models.Account{UserID: owner, Balance: dec(balance)}
	require.NoError(t, f.store.Accounts().Create(context.Background(), a))
	return a
}

func TestAudit_RecordsEachCallAgainstActor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.account(t, f.alice.UserID, "100")
	b := f.account(t, f.alice.UserID, "75")

	require.NoError(t, f.accounts.Transfer(ctx, f.alice, dec("50"), a.ID, b.ID))
	require.NoError(t, f.accounts.Withdraw(ctx, f.alice, dec("25"), b.ID))

	posts, err := f.audit.ListForUser(ctx, f.alice.UserID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, OpAccountTransfer, posts[0].Operation)
	assert.Equal(t, "amount=50, account_id_from=1, account_id_to=2", posts[0].Parameters)
	assert.Equal(t, models.AuditResultOk, posts[0].Result)
	assert.Equal(t, OpAccountWithdrawal, posts[1].Operation)
	assert.Equal(t, "amount=25, account_id_from=2", posts[1].Parameters)

	// The admin acts on alice's account; the post is theirs, not alice's.
	require.NoError(t, f.accounts.Withdraw(ctx, f.admin, dec("10"), a.ID))

	all, total, err := f.audit.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
	assert.Equal(t, f.admin.UserID, all[2].UserID)

	posts, err = f.audit.ListForUser(ctx, f.alice.UserID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestAudit_RecordsFailuresWithMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.account(t, f.alice.UserID, "10")

	err := f.accounts.Withdraw(ctx, f.alice, dec("20"), a.ID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	err = f.cards.Withdraw(ctx, f.alice, dec("1"), 9)
	require.ErrorIs(t, err, apperrors.ErrCardNotFound)

	err = f.cards.Transfer(ctx, f.alice, dec("1"), 9, a.ID)
	require.ErrorIs(t, err, apperrors.ErrCardNotFound)

	posts, err := f.audit.ListForUser(ctx, f.alice.UserID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Insufficient balance on account: 1 Balance: 10 amount: 20", posts[0].Result)
	assert.Equal(t, OpCardWithdrawal, posts[1].Operation)
	assert.Equal(t, "amount=1, card_id_from=9", posts[1].Parameters)
	assert.Equal(t, "Could not find Card with id: 9", posts[1].Result)
	assert.Equal(t, OpCardTransfer, posts[2].Operation)
	assert.Equal(t, "amount=1, card_id_from=9, account_id_to=1", posts[2].Parameters)
}

func TestAudit_UnauditedOperationsLeaveNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.account(t, f.alice.UserID, "10")

	_, err := f.cards.Create(ctx, f.alice, a.ID, models.CardTypeDebit)
	require.NoError(t, err)
	require.NoError(t, f.accounts.Delete(ctx, f.alice, a.ID))
	require.NoError(t, f.accounts.Delete(ctx, f.alice, 1234))

	_, total, err := f.audit.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAudit_ListForUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.audit.ListForUser(context.Background(), 999)
	assert.EqualError(t, err, "Could not find User with id: 999")
}

func TestRecorder_AppendFailureDoesNotChangeOutcome(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAuditRepository)
	repo.On("Append", mock.Anything, mock.MatchedBy(func(p *models.AuditPost) bool {
		return p.UserID == 7 && p.Operation == "op" && p.Parameters == "x=1" && p.Result == models.AuditResultOk
	})).Return(errors.New("disk full")).Once()
	repo.On("Append", mock.Anything, mock.MatchedBy(func(p *models.AuditPost) bool {
		return p.Result == "boom"
	})).Return(errors.New("disk full")).Once()

	rec := NewRecorder(repo, config.DiscardLogger())
	actor := authz.Actor{UserID: 7, Role: models.RoleUser}

	err := rec.Record(ctx, actor, "op", []Arg{{"x", 1}}, func() error { return nil })
	assert.NoError(t, err)

	boom := errors.New("boom")
	err = rec.Record(ctx, actor, "op", []Arg{{"x", 1}}, func() error { return boom })
	assert.Same(t, boom, err)

	repo.AssertExpectations(t)
}

func TestRecorder_AppendsAfterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memory.NewStore().Ledger()
	rec := NewRecorder(store.Audit(), config.DiscardLogger())

	err := rec.Record(ctx, authz.Actor{UserID: 1}, "op", nil, func() error {
		cancel()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)

	posts, err := store.Audit().ListByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "context canceled", posts[0].Result)
	assert.Equal(t, "", posts[0].Parameters)
}

func TestFormatArgs(t *testing.T) {
	got := FormatArgs([]Arg{{"amount", dec("10.50")}, {"card_id_from", uint(3)}, {"account_id_to", uint(4)}})
	assert.Equal(t, "amount=10.5, card_id_from=3, account_id_to=4", got)
}
