package cache

import (
	"context"

	"github.com/shopspring/decimal"
)

// NoopCache is used when no Redis host is configured. Every lookup misses.
type NoopCache struct{}

func (NoopCache) GetBalance(context.Context, uint) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}

func (NoopCache) SetBalance(context.Context, uint, decimal.Decimal) error { return nil }

func (NoopCache) InvalidateBalance(context.Context, ...uint) error { return nil }

func (NoopCache) GetTokenVersion(context.Context, uint) (int, bool, error) { return 0, false, nil }

func (NoopCache) SetTokenVersion(context.Context, uint, int) error { return nil }

func (NoopCache) InvalidateTokenVersion(context.Context, uint) error { return nil }
