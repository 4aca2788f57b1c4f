// Package wallet implements the wallet store: one balance per child,
// adjusted only through atomic credit/debit operations that write the
// wallet row and its ledger entry in one database transaction.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dErrors "choreblimey/internal/errors"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
)

// Service is the wallet store consumed by handlers and the settlement
// engine's collaborators (chore completion, bidding).
type Service interface {
	// GetOrCreate returns the child's wallet, creating an empty one on
	// first use.
	GetOrCreate(ctx context.Context, familyID, childID uint) (*models.Wallet, error)
	// GetWallet is the cache-backed read path.
	GetWallet(ctx context.Context, familyID, childID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, familyID, childID uint) (int64, error)
	// Credit adds money and appends the matching ledger entry atomically.
	Credit(ctx context.Context, req OperationRequest) (*models.Wallet, error)
	// Debit removes money, failing if the balance would go negative.
	Debit(ctx context.Context, req OperationRequest) (*models.Wallet, error)
	Transactions(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, error)
}

type service struct {
	db      *gorm.DB
	wallets repositories.WalletRepository
	ledger  repositories.LedgerRepository
	cache   Cache
	metrics MetricsCollector
}

// NewService creates a new wallet service.
func NewService(
	db *gorm.DB,
	wallets repositories.WalletRepository,
	ledger repositories.LedgerRepository,
	cache Cache,
	metrics MetricsCollector,
) Service {
	if db == nil {
		panic("db is required")
	}
	if wallets == nil {
		panic("wallet repository is required")
	}
	if ledger == nil {
		panic("ledger repository is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &service{
		db:      db,
		wallets: wallets,
		ledger:  ledger,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *service) GetOrCreate(ctx context.Context, familyID, childID uint) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByChild(familyID, childID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	wallet = &models.Wallet{ChildID: childID, FamilyID: familyID, BalancePence: 0}
	if err := s.wallets.Create(wallet); err != nil {
		// Lost a creation race, the row exists now.
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return s.wallets.GetByChild(familyID, childID)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, familyID, childID uint) (*models.Wallet, error) {
	if wallet, err := s.cache.GetWallet(ctx, familyID, childID); err == nil {
		return wallet, nil
	}

	wallet, err := s.wallets.GetByChild(familyID, childID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, dErrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	_ = s.cache.CacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, familyID, childID uint) (int64, error) {
	wallet, err := s.GetWallet(ctx, familyID, childID)
	if err != nil {
		return 0, err
	}
	return wallet.BalancePence, nil
}

func (s *service) Credit(ctx context.Context, req OperationRequest) (*models.Wallet, error) {
	if req.AmountPence <= 0 {
		s.metrics.RecordError("credit", "invalid_amount")
		return nil, dErrors.ErrInvalidAmount
	}
	source, err := normalizeSource(req.Source)
	if err != nil {
		return nil, err
	}

	var updated *models.Wallet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wr := s.wallets.WithTx(tx)
		wallet, err := wr.GetByIDLocked(req.WalletID)
		if err != nil {
			return err
		}

		updated, err = wr.Increment(wallet.ID, req.AmountPence)
		if err != nil {
			return err
		}

		return s.ledger.WithTx(tx).Append(&models.Transaction{
			WalletID:    wallet.ID,
			FamilyID:    wallet.FamilyID,
			Type:        models.TransactionTypeCredit,
			AmountPence: req.AmountPence,
			Source:      source,
			GiftID:      req.GiftID,
			Meta:        req.Meta,
		})
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, dErrors.ErrWalletNotFound
		}
		s.metrics.RecordError("credit", "storage")
		return nil, fmt.Errorf("credit failed: %w", err)
	}

	_ = s.cache.InvalidateWallet(ctx, updated.FamilyID, updated.ChildID)
	s.metrics.RecordOperation("credit", req.AmountPence)
	return updated, nil
}

func (s *service) Debit(ctx context.Context, req OperationRequest) (*models.Wallet, error) {
	if req.AmountPence <= 0 {
		s.metrics.RecordError("debit", "invalid_amount")
		return nil, dErrors.ErrInvalidAmount
	}
	source, err := normalizeSource(req.Source)
	if err != nil {
		return nil, err
	}

	var updated *models.Wallet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wr := s.wallets.WithTx(tx)
		wallet, err := wr.GetByIDLocked(req.WalletID)
		if err != nil {
			return err
		}

		if wallet.BalancePence < req.AmountPence {
			return dErrors.ErrInsufficientBalance.WithDetails(map[string]any{
				"requestedPence": req.AmountPence,
				"availablePence": wallet.BalancePence,
			})
		}

		updated, err = wr.Decrement(wallet.ID, req.AmountPence)
		if err != nil {
			return err
		}

		return s.ledger.WithTx(tx).Append(&models.Transaction{
			WalletID:    wallet.ID,
			FamilyID:    wallet.FamilyID,
			Type:        models.TransactionTypeDebit,
			AmountPence: req.AmountPence,
			Source:      source,
			Meta:        req.Meta,
		})
	})
	if err != nil {
		var domainErr *dErrors.DomainError
		if errors.As(err, &domainErr) {
			s.metrics.RecordError("debit", domainErr.Code)
			return nil, err
		}
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, dErrors.ErrWalletNotFound
		}
		if errors.Is(err, repositories.ErrInsufficientFunds) {
			s.metrics.RecordError("debit", "insufficient_funds")
			return nil, dErrors.ErrInsufficientBalance
		}
		s.metrics.RecordError("debit", "storage")
		return nil, fmt.Errorf("debit failed: %w", err)
	}

	_ = s.cache.InvalidateWallet(ctx, updated.FamilyID, updated.ChildID)
	s.metrics.RecordOperation("debit", req.AmountPence)
	return updated, nil
}

func (s *service) Transactions(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ledger.ListByWallet(walletID, limit, offset)
}

func normalizeSource(source string) (string, error) {
	switch source {
	case "":
		return models.SourceSystem, nil
	case models.SourceParent, models.SourceRelative, models.SourceSystem:
		return source, nil
	default:
		return "", ErrInvalidSource
	}
}
