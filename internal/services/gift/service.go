// Package gift implements the gift inbox: money pledged by relatives,
// held pending until a settlement claims it. Creating a gift records a
// pending ledger credit but never touches the wallet balance.
package gift

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dErrors "choreblimey/internal/errors"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
	walletsvc "choreblimey/internal/services/wallet"
)

// CreateRequest is a relative's contribution for a child.
type CreateRequest struct {
	FamilyID     uint
	ChildID      uint
	RelativeID   uint
	RelativeName string
	MoneyPence   int64
	Note         string
}

// Service is the gift inbox.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Gift, error)
	// FindPendingByIDs resolves ids to pending gifts owned by the child.
	// Any id that is settled, missing or owned elsewhere fails the whole
	// selection.
	FindPendingByIDs(ctx context.Context, familyID, childID uint, ids []uint) ([]models.Gift, error)
	ListPending(ctx context.Context, familyID, childID uint) ([]models.Gift, error)
	PendingTotal(ctx context.Context, familyID, childID uint) (int64, error)
}

type service struct {
	db      *gorm.DB
	gifts   repositories.GiftRepository
	ledger  repositories.LedgerRepository
	wallets walletsvc.Service
}

// NewService creates a new gift inbox service.
func NewService(
	db *gorm.DB,
	gifts repositories.GiftRepository,
	ledger repositories.LedgerRepository,
	wallets walletsvc.Service,
) Service {
	if db == nil {
		panic("db is required")
	}
	if gifts == nil {
		panic("gift repository is required")
	}
	if ledger == nil {
		panic("ledger repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{db: db, gifts: gifts, ledger: ledger, wallets: wallets}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Gift, error) {
	if req.MoneyPence <= 0 {
		return nil, dErrors.ErrInvalidAmount
	}

	// The ledger row needs a wallet to hang off, so the wallet is created
	// lazily here even though its balance stays untouched.
	wallet, err := s.wallets.GetOrCreate(ctx, req.FamilyID, req.ChildID)
	if err != nil {
		return nil, err
	}

	gift := &models.Gift{
		FamilyID:     req.FamilyID,
		ChildID:      req.ChildID,
		RelativeID:   req.RelativeID,
		RelativeName: req.RelativeName,
		MoneyPence:   req.MoneyPence,
		Status:       models.GiftStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gifts.WithTx(tx).Create(gift); err != nil {
			return err
		}

		meta := models.JSON{
			"giftId": gift.ID,
			"status": models.MetaStatusPending,
		}
		if req.Note != "" {
			meta["note"] = req.Note
		}
		if req.RelativeName != "" {
			meta["relativeName"] = req.RelativeName
		}

		// Pending credits are excluded from the spendable balance until
		// settlement flips their status.
		return s.ledger.WithTx(tx).Append(&models.Transaction{
			WalletID:    wallet.ID,
			FamilyID:    req.FamilyID,
			Type:        models.TransactionTypeCredit,
			AmountPence: req.MoneyPence,
			Source:      models.SourceRelative,
			GiftID:      &gift.ID,
			Meta:        meta,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record gift: %w", err)
	}

	return gift, nil
}

func (s *service) FindPendingByIDs(ctx context.Context, familyID, childID uint, ids []uint) ([]models.Gift, error) {
	gifts, err := s.gifts.FindPendingByIDs(familyID, childID, ids)
	if err != nil {
		if errors.Is(err, repositories.ErrGiftNotFound) {
			return nil, dErrors.ErrInvalidGiftSelection
		}
		return nil, err
	}
	if len(gifts) != len(ids) {
		return nil, dErrors.ErrInvalidGiftSelection.WithDetails(map[string]any{
			"requested": len(ids),
			"pending":   len(gifts),
		})
	}
	return gifts, nil
}

func (s *service) ListPending(ctx context.Context, familyID, childID uint) ([]models.Gift, error) {
	return s.gifts.ListPending(familyID, childID)
}

func (s *service) PendingTotal(ctx context.Context, familyID, childID uint) (int64, error) {
	return s.gifts.SumPending(familyID, childID)
}
