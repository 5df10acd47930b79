package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// BalanceCache holds each user's total balance over all their accounts.
// Implementations must treat a miss as (zero, false, nil).
type BalanceCache interface {
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, bool, error)
	SetBalance(ctx context.Context, userID uint, total decimal.Decimal) error
	InvalidateBalance(ctx context.Context, userIDs ...uint) error
}

// TokenVersionCache holds each user's current token version so authenticated
// requests can skip the users table.
type TokenVersionCache interface {
	GetTokenVersion(ctx context.Context, userID uint) (int, bool, error)
	SetTokenVersion(ctx context.Context, userID uint, version int) error
	InvalidateTokenVersion(ctx context.Context, userID uint) error
}

// Cache is everything the services keep in Redis.
type Cache interface {
	BalanceCache
	TokenVersionCache
}

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

var (
	_ Cache = (*CacheService)(nil)
	_ Cache = NoopCache{}
)

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Balance caching
func (s *CacheService) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, bool, error) {
	var total decimal.Decimal
	found, err := s.Get(ctx, GenerateKey("balance", "user", userID), &total)
	if err != nil || !found {
		return decimal.Zero, false, err
	}
	return total, true, nil
}

func (s *CacheService) SetBalance(ctx context.Context, userID uint, total decimal.Decimal) error {
	return s.Set(ctx, GenerateKey("balance", "user", userID), total)
}

func (s *CacheService) InvalidateBalance(ctx context.Context, userIDs ...uint) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, GenerateKey("balance", "user", id))
	}
	return s.Delete(ctx, keys...)
}

// Token version caching
func (s *CacheService) GetTokenVersion(ctx context.Context, userID uint) (int, bool, error) {
	var version int
	found, err := s.Get(ctx, GenerateKey("user", "token_version", userID), &version)
	if err != nil || !found {
		return 0, false, err
	}
	return version, true, nil
}

func (s *CacheService) SetTokenVersion(ctx context.Context, userID uint, version int) error {
	return s.Set(ctx, GenerateKey("user", "token_version", userID), version)
}

func (s *CacheService) InvalidateTokenVersion(ctx context.Context, userID uint) error {
	return s.Delete(ctx, GenerateKey("user", "token_version", userID))
}

// HealthCheck pings the server.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
