package repositories

import (
	"context"
	"errors"
	"sort"

	"bankaccount/internal/models"
)

// LockAccounts row-locks the given accounts in ascending id order so that two
// transfers over the same pair never wait on each other in opposite order.
// Missing accounts are left out of the result; callers decide which miss to
// report first. Must be called with a transactional store.
func LockAccounts(ctx context.Context, store LedgerStore, ids ...uint) (map[uint]*models.Account, error) {
	sorted := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	locked := make(map[uint]*models.Account, len(sorted))
	for _, id := range sorted {
		account, err := store.Accounts().GetByIDForUpdate(ctx, id)
		if errors.Is(err, ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}
	return locked, nil
}
