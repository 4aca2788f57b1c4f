// Package settlement implements the payout engine: it reconciles a
// child's chore earnings and pending relative gifts into a single
// recorded payout. The five execution steps — gift crediting, payout
// insert, gift status transition, wallet debit, ledger write — run in
// one serializable database transaction; a failure anywhere rolls back
// everything.
package settlement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dErrors "choreblimey/internal/errors"
	"choreblimey/internal/logger"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
)

// Service is the settlement engine.
type Service interface {
	// Settle validates and executes a payout, returning the finalized
	// record or a typed error with no partial effects.
	Settle(ctx context.Context, req SettleRequest) (*models.Payout, error)
	ListPayouts(ctx context.Context, familyID uint, childID *uint) ([]models.Payout, error)
	UnpaidBalance(ctx context.Context, familyID, childID uint) (*UnpaidBalance, error)
}

type engine struct {
	db       *gorm.DB
	wallets  repositories.WalletRepository
	ledger   repositories.LedgerRepository
	gifts    repositories.GiftRepository
	payouts  repositories.PayoutRepository
	cache    Cache
	notifier Notifier
	metrics  MetricsCollector
}

// NewEngine creates a settlement engine. Cache, notifier and metrics are
// optional.
func NewEngine(
	db *gorm.DB,
	wallets repositories.WalletRepository,
	ledger repositories.LedgerRepository,
	gifts repositories.GiftRepository,
	payouts repositories.PayoutRepository,
	cache Cache,
	notifier Notifier,
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
	if gifts == nil {
		panic("gift repository is required")
	}
	if payouts == nil {
		panic("payout repository is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &engine{
		db:       db,
		wallets:  wallets,
		ledger:   ledger,
		gifts:    gifts,
		payouts:  payouts,
		cache:    cache,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (e *engine) Settle(ctx context.Context, req SettleRequest) (*models.Payout, error) {
	started := time.Now()

	if err := e.validateShape(req); err != nil {
		e.metrics.RecordFailure(failureReason(err))
		return nil, err
	}

	// Creating an empty wallet for a first payout attempt is fine; the
	// balance checks below will reject it if there is nothing to pay.
	wallet, err := e.getOrCreateWallet(req.FamilyID, req.ChildID)
	if err != nil {
		e.metrics.RecordFailure("storage")
		return nil, err
	}

	// First pass outside the transaction: fail fast with full context
	// before taking any locks.
	selected, err := e.selectGifts(e.gifts, req, false)
	if err != nil {
		e.metrics.RecordFailure(failureReason(err))
		return nil, err
	}
	if err := e.checkAmounts(req, wallet.BalancePence, giftTotal(selected)); err != nil {
		e.metrics.RecordFailure(failureReason(err))
		return nil, err
	}

	payout := &models.Payout{
		Reference:        uuid.NewString(),
		FamilyID:         req.FamilyID,
		ChildID:          req.ChildID,
		AmountPence:      req.AmountPence,
		ChoreAmountPence: &req.ChoreAmountPence,
		PaidBy:           req.OperatorID,
		Method:           req.Method,
		Note:             req.Note,
		GiftIDs:          models.IDList(req.GiftIDs),
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return e.execute(tx, req, wallet.ID, payout)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		var domainErr *dErrors.DomainError
		if errors.As(err, &domainErr) {
			e.metrics.RecordFailure(domainErr.Code)
			return nil, err
		}
		logger.Error("settlement transaction failed",
			"familyId", req.FamilyID, "childId", req.ChildID, "error", err)
		e.metrics.RecordFailure("storage")
		return nil, dErrors.ErrStorageFailure
	}

	_ = e.cache.InvalidateWallet(ctx, req.FamilyID, req.ChildID)
	e.metrics.RecordSettlement(req.AmountPence, req.AmountPence-req.ChoreAmountPence,
		len(req.GiftIDs), time.Since(started))

	if e.notifier != nil {
		if err := e.notifier.PayoutCompleted(ctx, payout); err != nil {
			logger.Warn("payout notification failed",
				"payoutId", payout.ID, "error", err)
		}
	}

	return payout, nil
}

// execute runs the five settlement steps against tx. Everything here is
// revalidated under row locks: a concurrent settlement naming the same
// gifts loses the race and observes them as no longer pending.
func (e *engine) execute(tx *gorm.DB, req SettleRequest, walletID uint, payout *models.Payout) error {
	wr := e.wallets.WithTx(tx)
	lr := e.ledger.WithTx(tx)
	gr := e.gifts.WithTx(tx)
	pr := e.payouts.WithTx(tx)

	wallet, err := wr.GetByIDLocked(walletID)
	if err != nil {
		return err
	}

	selected, err := e.selectGifts(gr, req, true)
	if err != nil {
		return err
	}
	giftPence := giftTotal(selected)
	if err := e.checkAmounts(req, wallet.BalancePence, giftPence); err != nil {
		return err
	}

	if err := pr.Create(payout); err != nil {
		return err
	}

	if giftPence > 0 {
		if _, err := wr.Increment(wallet.ID, giftPence); err != nil {
			return err
		}
		// The annotation is non-authoritative audit trail; the gift and
		// payout rows carry the settlement truth, so a missing credit
		// row is logged rather than fatal.
		for _, g := range selected {
			credit, err := lr.FindGiftCredit(wallet.ID, g.ID)
			if err != nil {
				if errors.Is(err, repositories.ErrTransactionNotFound) {
					logger.Warn("no ledger credit found for gift", "giftId", g.ID)
					continue
				}
				return err
			}
			if err := lr.AnnotateSettled(credit.ID, payout.ID); err != nil {
				return err
			}
		}
	}

	if err := gr.MarkSettled(req.GiftIDs, payout.ID, time.Now().UTC()); err != nil {
		return err
	}

	if _, err := wr.Decrement(wallet.ID, req.AmountPence); err != nil {
		if errors.Is(err, repositories.ErrInsufficientFunds) {
			return dErrors.ErrInsufficientBalance
		}
		return err
	}

	return lr.Append(&models.Transaction{
		WalletID:    wallet.ID,
		FamilyID:    req.FamilyID,
		Type:        models.TransactionTypeDebit,
		AmountPence: req.AmountPence,
		Source:      models.SourceParent,
		Meta: models.JSON{
			"payoutId":         payout.ID,
			"method":           req.Method,
			"note":             req.Note,
			"giftIds":          req.GiftIDs,
			"choreAmountPence": req.ChoreAmountPence,
			"giftAmountPence":  giftPence,
		},
	})
}

func (e *engine) validateShape(req SettleRequest) error {
	if req.AmountPence <= 0 {
		return dErrors.Validation("amountPence must be positive, got %d", req.AmountPence)
	}
	if req.ChoreAmountPence < 0 {
		return dErrors.Validation("choreAmountPence must not be negative, got %d", req.ChoreAmountPence)
	}
	if req.FamilyID == 0 || req.ChildID == 0 {
		return dErrors.Validation("familyId and childId are required")
	}
	if req.Method == "" {
		return dErrors.Validation("method is required")
	}
	seen := make(map[uint]struct{}, len(req.GiftIDs))
	for _, id := range req.GiftIDs {
		if _, dup := seen[id]; dup {
			return dErrors.Validation("duplicate gift id %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// selectGifts resolves the named gifts and enforces that every id maps
// to a pending gift owned by the child.
func (e *engine) selectGifts(repo repositories.GiftRepository, req SettleRequest, locked bool) ([]models.Gift, error) {
	if len(req.GiftIDs) == 0 {
		return nil, nil
	}

	var (
		gifts []models.Gift
		err   error
	)
	if locked {
		gifts, err = repo.FindPendingByIDsLocked(req.FamilyID, req.ChildID, req.GiftIDs)
	} else {
		gifts, err = repo.FindPendingByIDs(req.FamilyID, req.ChildID, req.GiftIDs)
	}
	if err != nil {
		return nil, err
	}
	if len(gifts) != len(req.GiftIDs) {
		return nil, dErrors.ErrInvalidGiftSelection.WithDetails(map[string]any{
			"requested": len(req.GiftIDs),
			"pending":   len(gifts),
		})
	}
	return gifts, nil
}

// checkAmounts enforces the reconciliation rules: the declared total
// equals chore portion plus gift money, the chore portion is covered by
// the pre-settlement balance (gift money cannot fund it), and the full
// amount is covered overall.
func (e *engine) checkAmounts(req SettleRequest, balancePence, giftPence int64) error {
	if req.ChoreAmountPence+giftPence != req.AmountPence {
		return dErrors.ErrAmountMismatch.WithDetails(map[string]any{
			"amountPence":      req.AmountPence,
			"choreAmountPence": req.ChoreAmountPence,
			"giftPence":        giftPence,
		})
	}
	if req.ChoreAmountPence > balancePence {
		return dErrors.ErrInsufficientBalance.WithDetails(map[string]any{
			"choreAmountPence": req.ChoreAmountPence,
			"balancePence":     balancePence,
		})
	}
	if balancePence+giftPence < req.AmountPence {
		return dErrors.ErrInsufficientBalance.WithDetails(map[string]any{
			"amountPence":    req.AmountPence,
			"availablePence": balancePence + giftPence,
		})
	}
	return nil
}

func (e *engine) getOrCreateWallet(familyID, childID uint) (*models.Wallet, error) {
	wallet, err := e.wallets.GetByChild(familyID, childID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	wallet = &models.Wallet{ChildID: childID, FamilyID: familyID}
	if err := e.wallets.Create(wallet); err != nil {
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return e.wallets.GetByChild(familyID, childID)
		}
		return nil, err
	}
	return wallet, nil
}

func (e *engine) ListPayouts(ctx context.Context, familyID uint, childID *uint) ([]models.Payout, error) {
	return e.payouts.List(familyID, childID)
}

func (e *engine) UnpaidBalance(ctx context.Context, familyID, childID uint) (*UnpaidBalance, error) {
	var balance int64
	wallet, err := e.wallets.GetByChild(familyID, childID)
	if err == nil {
		balance = wallet.BalancePence
	} else if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	pending, err := e.gifts.SumPending(familyID, childID)
	if err != nil {
		return nil, err
	}

	return &UnpaidBalance{
		BalancePence:     balance,
		PendingGiftPence: pending,
		AvailablePence:   balance + pending,
	}, nil
}

func giftTotal(gifts []models.Gift) int64 {
	var total int64
	for _, g := range gifts {
		total += g.MoneyPence
	}
	return total
}

func failureReason(err error) string {
	var domainErr *dErrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "storage"
}
