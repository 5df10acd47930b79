package memory

import (
	"context"

	"bankaccount/internal/models"
	"bankaccount/internal/repositories"

	"github.com/shopspring/decimal"
)

// Stored values never carry their associations; they are attached on read.

func loadAccount(s *state, id uint) (*models.Account, bool) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	a.Cards = []models.Card{}
	for _, cid := range sortedKeys(s.cards) {
		if c := s.cards[cid]; c.AccountID == id {
			a.Cards = append(a.Cards, c)
		}
	}
	return &a, true
}

func accountsWhere(s *state, match func(models.Account) bool) []*models.Account {
	var out []*models.Account
	for _, id := range sortedKeys(s.accounts) {
		if match(s.accounts[id]) {
			a, _ := loadAccount(s, id)
			out = append(out, a)
		}
	}
	return out
}

type accountRepo struct{ v *view }

func (r accountRepo) GetByID(_ context.Context, id uint) (*models.Account, error) {
	var out *models.Account
	err := r.v.read(func(s *state) error {
		a, ok := loadAccount(s, id)
		if !ok {
			return repositories.ErrAccountNotFound
		}
		out = a
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no lock of its own: transactions are serialized.
func (r accountRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Account, error) {
	return r.GetByID(ctx, id)
}

func (r accountRepo) ListByUserID(_ context.Context, userID uint) ([]*models.Account, error) {
	var out []*models.Account
	err := r.v.read(func(s *state) error {
		out = accountsWhere(s, func(a models.Account) bool { return a.UserID == userID })
		return nil
	})
	return out, err
}

func (r accountRepo) List(_ context.Context, offset, limit int) ([]*models.Account, int64, error) {
	var (
		out   []*models.Account
		total int64
	)
	err := r.v.read(func(s *state) error {
		all := accountsWhere(s, func(models.Account) bool { return true })
		total = int64(len(all))
		var err error
		out, err = page(all, offset, limit)
		return err
	})
	return out, total, err
}

func (r accountRepo) Create(_ context.Context, account *models.Account) error {
	return r.v.write(func(s *state) error {
		s.accountSeq++
		now := r.v.store.now()
		account.ID = s.accountSeq
		account.CreatedAt, account.UpdatedAt = now, now
		stored := *account
		stored.Cards = nil
		s.accounts[account.ID] = stored
		return nil
	})
}

func (r accountRepo) Update(_ context.Context, account *models.Account) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.accounts[account.ID]; !ok {
			return repositories.ErrAccountNotFound
		}
		account.UpdatedAt = r.v.store.now()
		stored := *account
		stored.Cards = nil
		s.accounts[account.ID] = stored
		return nil
	})
}

func (r accountRepo) Delete(_ context.Context, id uint) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.accounts[id]; !ok {
			return repositories.ErrAccountNotFound
		}
		delete(s.accounts, id)
		return nil
	})
}

func (r accountRepo) SumBalanceByUserID(_ context.Context, userID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.read(func(s *state) error {
		for _, a := range s.accounts {
			if a.UserID == userID {
				total = total.Add(a.Balance)
			}
		}
		return nil
	})
	return total, err
}

type cardRepo struct{ v *view }

func (r cardRepo) GetByID(_ context.Context, id uint) (*models.Card, error) {
	var out *models.Card
	err := r.v.read(func(s *state) error {
		c, ok := s.cards[id]
		if !ok {
			return repositories.ErrCardNotFound
		}
		if a, ok := s.accounts[c.AccountID]; ok {
			c.Account = &a
		}
		out = &c
		return nil
	})
	return out, err
}

func (r cardRepo) Create(_ context.Context, card *models.Card) error {
	return r.v.write(func(s *state) error {
		s.cardSeq++
		card.ID = s.cardSeq
		card.CreatedAt = r.v.store.now()
		stored := *card
		stored.Account = nil
		s.cards[card.ID] = stored
		return nil
	})
}

func (r cardRepo) Delete(_ context.Context, id uint) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.cards[id]; !ok {
			return repositories.ErrCardNotFound
		}
		delete(s.cards, id)
		return nil
	})
}

func (r cardRepo) DeleteByAccountID(_ context.Context, accountID uint) (int64, error) {
	var n int64
	err := r.v.write(func(s *state) error {
		for id, c := range s.cards {
			if c.AccountID == accountID {
				delete(s.cards, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type userRepo struct{ v *view }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	return r.v.write(func(s *state) error {
		for _, u := range s.users {
			if u.Username == user.Username {
				return repositories.ErrUsernameTaken
			}
		}
		s.userSeq++
		now := r.v.store.now()
		user.ID = s.userSeq
		user.CreatedAt, user.UpdatedAt = now, now
		if user.TokenVersion == 0 {
			user.TokenVersion = 1
		}
		stored := *user
		stored.Accounts = nil
		s.users[user.ID] = stored
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	var out *models.User
	err := r.v.read(func(s *state) error {
		u, ok := s.users[id]
		if !ok {
			return repositories.ErrUserNotFound
		}
		for _, a := range accountsWhere(s, func(a models.Account) bool { return a.UserID == id }) {
			u.Accounts = append(u.Accounts, *a)
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var out *models.User
	err := r.v.read(func(s *state) error {
		for _, u := range s.users {
			if u.Username == username {
				out = &u
				return nil
			}
		}
		return repositories.ErrUserNotFound
	})
	return out, err
}

func (r userRepo) ExistsByID(_ context.Context, id uint) (bool, error) {
	var ok bool
	err := r.v.read(func(s *state) error {
		_, ok = s.users[id]
		return nil
	})
	return ok, err
}

func (r userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == repositories.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r userRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var (
		out   []*models.User
		total int64
	)
	err := r.v.read(func(s *state) error {
		all := make([]*models.User, 0, len(s.users))
		for _, id := range sortedKeys(s.users) {
			u := s.users[id]
			all = append(all, &u)
		}
		total = int64(len(all))
		var err error
		out, err = page(all, offset, limit)
		return err
	})
	return out, total, err
}

func (r userRepo) IncrementTokenVersion(_ context.Context, userID uint) error {
	return r.v.write(func(s *state) error {
		u, ok := s.users[userID]
		if !ok {
			return repositories.ErrUserNotFound
		}
		u.TokenVersion++
		s.users[userID] = u
		return nil
	})
}

type customerRepo struct{ v *view }

func (r customerRepo) Create(_ context.Context, customer *models.Customer) error {
	return r.v.write(func(s *state) error {
		s.customerSeq++
		now := r.v.store.now()
		customer.ID = s.customerSeq
		customer.CreatedAt, customer.UpdatedAt = now, now
		stored := *customer
		stored.Accounts = nil
		s.customers[customer.ID] = stored
		return nil
	})
}

func (r customerRepo) GetByID(_ context.Context, id uint) (*models.Customer, error) {
	var out *models.Customer
	err := r.v.read(func(s *state) error {
		c, ok := s.customers[id]
		if !ok {
			return repositories.ErrCustomerNotFound
		}
		c.Accounts = []models.Account{}
		for _, a := range accountsWhere(s, func(a models.Account) bool {
			return a.CustomerID != nil && *a.CustomerID == id
		}) {
			c.Accounts = append(c.Accounts, *a)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r customerRepo) Update(_ context.Context, customer *models.Customer) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.customers[customer.ID]; !ok {
			return repositories.ErrCustomerNotFound
		}
		customer.UpdatedAt = r.v.store.now()
		stored := *customer
		stored.Accounts = nil
		s.customers[customer.ID] = stored
		return nil
	})
}

type auditRepo struct{ v *view }

func (r auditRepo) Append(_ context.Context, post *models.AuditPost) error {
	return r.v.write(func(s *state) error {
		s.auditSeq++
		post.ID = s.auditSeq
		post.CreatedAt = r.v.store.now()
		s.audit = append(s.audit, *post)
		return nil
	})
}

func (r auditRepo) List(_ context.Context, offset, limit int) ([]*models.AuditPost, int64, error) {
	var (
		out   []*models.AuditPost
		total int64
	)
	err := r.v.read(func(s *state) error {
		all := make([]*models.AuditPost, len(s.audit))
		for i := range s.audit {
			p := s.audit[i]
			all[i] = &p
		}
		total = int64(len(all))
		var err error
		out, err = page(all, offset, limit)
		return err
	})
	return out, total, err
}

func (r auditRepo) ListByUserID(_ context.Context, userID uint) ([]*models.AuditPost, error) {
	var out []*models.AuditPost
	err := r.v.read(func(s *state) error {
		for i := range s.audit {
			if p := s.audit[i]; p.UserID == userID {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}
