package repositories

import (
	"context"

	"gorm.io/gorm"
)

type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore returns the GORM-backed LedgerStore.
func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) Accounts() AccountRepository   { return &accountRepository{db: s.db} }
func (s *ledgerStore) Cards() CardRepository         { return &cardRepository{db: s.db} }
func (s *ledgerStore) Users() UserRepository         { return &userRepository{db: s.db} }
func (s *ledgerStore) Customers() CustomerRepository { return &customerRepository{db: s.db} }
func (s *ledgerStore) Audit() AuditRepository        { return &auditRepository{db: s.db} }

func (s *ledgerStore) ExecuteInTransaction(ctx context.Context, fn func(LedgerStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerStore{db: tx})
	})
}
