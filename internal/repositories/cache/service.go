package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"earnsure/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis with JSON marshaling and the key conventions used
// across the app (user rows, wallet balances, the leaderboard snapshot).
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

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
		if err == redis.Nil {
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
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, s.GenerateKey("user", "id", user.ID), user)
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("user", "id", userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("user not found in cache")
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx,
		s.GenerateKey("user", "id", userID),
		s.GenerateKey("balance", "user", userID),
	)
}

// Balance caching. The ledger invalidates on every Apply, so a cached value
// is at most one mutation stale for the owning user.
func (s *CacheService) CacheBalance(ctx context.Context, userID uint, coins int64) error {
	return s.SetWithTTL(ctx, s.GenerateKey("balance", "user", userID), coins, 5*time.Minute)
}

func (s *CacheService) GetBalance(ctx context.Context, userID uint) (int64, bool, error) {
	var coins int64
	found, err := s.Get(ctx, s.GenerateKey("balance", "user", userID), &coins)
	return coins, found, err
}

func (s *CacheService) InvalidateBalance(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("balance", "user", userID))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
