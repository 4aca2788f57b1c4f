// Package cache provides a redis-backed read cache for wallet rows.
// Every wallet mutation invalidates the cached entry; the database is
// always the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"choreblimey/internal/models"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Service wraps a redis client with JSON marshalling and a default TTL.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}
	return json.Unmarshal(data, dest)
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// FlushAll clears the cache; used on startup.
func (s *Service) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}

func walletKey(familyID, childID uint) string {
	return fmt.Sprintf("wallet:%d:%d", familyID, childID)
}

// CacheWallet stores a wallet row under its (family, child) key.
func (s *Service) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return errors.New("cannot cache nil wallet")
	}
	return s.Set(ctx, walletKey(wallet.FamilyID, wallet.ChildID), wallet)
}

// GetWallet returns the cached wallet row, or ErrCacheMiss.
func (s *Service) GetWallet(ctx context.Context, familyID, childID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.Get(ctx, walletKey(familyID, childID), &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// InvalidateWallet drops the cached wallet row after a balance change.
func (s *Service) InvalidateWallet(ctx context.Context, familyID, childID uint) error {
	return s.Delete(ctx, walletKey(familyID, childID))
}
