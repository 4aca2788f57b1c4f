package wallet

import (
	"context"

	"choreblimey/internal/models"
)

// OperationRequest is a single credit or debit against a wallet.
type OperationRequest struct {
	WalletID    uint
	AmountPence int64
	Source      string      // parent, relative or system
	GiftID      *uint       // set on gift-credit rows only
	Meta        models.JSON // payoutId, note, etc.
}

// Cache is the wallet read cache consumed by the service. The redis
// cache service satisfies it; tests use NoopCache.
type Cache interface {
	GetWallet(ctx context.Context, familyID, childID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, familyID, childID uint) error
}

// NoopCache is a Cache that caches nothing.
type NoopCache struct{}

func (NoopCache) GetWallet(context.Context, uint, uint) (*models.Wallet, error) {
	return nil, ErrCacheDisabled
}
func (NoopCache) CacheWallet(context.Context, *models.Wallet) error      { return nil }
func (NoopCache) InvalidateWallet(context.Context, uint, uint) error     { return nil }
