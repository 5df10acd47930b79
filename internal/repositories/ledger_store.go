package repositories

import "context"

// LedgerStore is the durable record store for users, accounts, cards, customers
// and audit posts. Repositories obtained from the store passed to an
// ExecuteInTransaction callback share that transaction.
type LedgerStore interface {
	Accounts() AccountRepository
	Cards() CardRepository
	Users() UserRepository
	Customers() CustomerRepository
	Audit() AuditRepository

	// ExecuteInTransaction runs fn in a single unit of work. A non-nil error from
	// fn rolls back every write made through the store handed to fn.
	ExecuteInTransaction(ctx context.Context, fn func(LedgerStore) error) error
}
