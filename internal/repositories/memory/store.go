// Package memory is an in-process LedgerStore. Transactions are serialized and
// run against a private copy of the data that replaces the committed state only
// when the callback succeeds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bankaccount/internal/models"
	"bankaccount/internal/repositories"
)

type state struct {
	users     map[uint]models.User
	accounts  map[uint]models.Account
	cards     map[uint]models.Card
	customers map[uint]models.Customer
	audit     []models.AuditPost

	userSeq, accountSeq, cardSeq, customerSeq, auditSeq uint
}

func newState() *state {
	return &state{
		users:     make(map[uint]models.User),
		accounts:  make(map[uint]models.Account),
		cards:     make(map[uint]models.Card),
		customers: make(map[uint]models.Customer),
	}
}

func (s *state) clone() *state {
	c := *s
	c.users = make(map[uint]models.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.accounts = make(map[uint]models.Account, len(s.accounts))
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	c.cards = make(map[uint]models.Card, len(s.cards))
	for k, v := range s.cards {
		c.cards[k] = v
	}
	c.customers = make(map[uint]models.Customer, len(s.customers))
	for k, v := range s.customers {
		c.customers[k] = v
	}
	c.audit = append([]models.AuditPost(nil), s.audit...)
	return &c
}

// Store is safe for concurrent use.
type Store struct {
	txMu sync.Mutex   // held by writers and for the whole of a transaction
	mu   sync.RWMutex // guards data
	data *state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: newState(), now: time.Now}
}

// view is a LedgerStore bound either to the committed state (tx == nil) or to
// the private copy of a running transaction.
type view struct {
	store *Store
	tx    *state
}

var _ repositories.LedgerStore = (*view)(nil)

// Ledger returns the LedgerStore over the committed state.
func (s *Store) Ledger() repositories.LedgerStore {
	return &view{store: s}
}

func (v *view) read(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.data)
}

func (v *view) write(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

func (v *view) Accounts() repositories.AccountRepository   { return accountRepo{v} }
func (v *view) Cards() repositories.CardRepository         { return cardRepo{v} }
func (v *view) Users() repositories.UserRepository         { return userRepo{v} }
func (v *view) Customers() repositories.CustomerRepository { return customerRepo{v} }
func (v *view) Audit() repositories.AuditRepository        { return auditRepo{v} }

// ExecuteInTransaction joins the running transaction when called on a
// transactional view.
func (v *view) ExecuteInTransaction(ctx context.Context, fn func(repositories.LedgerStore) error) error {
	if v.tx != nil {
		return fn(v)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()

	v.store.mu.RLock()
	work := v.store.data.clone()
	v.store.mu.RUnlock()

	if err := fn(&view{store: v.store, tx: work}); err != nil {
		return err
	}

	v.store.mu.Lock()
	v.store.data = work
	v.store.mu.Unlock()
	return nil
}

func page[T any](items []T, offset, limit int) ([]T, error) {
	if offset < 0 || limit <= 0 {
		return nil, repositories.ErrInvalidPage
	}
	if offset >= len(items) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// HealthCheck always succeeds; the store lives in process.
func (s *Store) HealthCheck(context.Context) error { return nil }
