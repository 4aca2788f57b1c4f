package settlement

import (
	"context"

	"choreblimey/internal/models"
)

// SettleRequest is a parent-initiated payout. AmountPence is the full
// disbursement; ChoreAmountPence is the portion funded by already-earned
// wallet balance; GiftIDs name the pending gifts folded in.
type SettleRequest struct {
	FamilyID         uint
	ChildID          uint
	OperatorID       uint
	AmountPence      int64
	ChoreAmountPence int64
	GiftIDs          []uint
	Method           string
	Note             string
}

// UnpaidBalance is the live projection of what a child could be paid:
// spendable balance plus pending gift money.
type UnpaidBalance struct {
	BalancePence     int64 `json:"balancePence"`
	PendingGiftPence int64 `json:"pendingGiftPence"`
	AvailablePence   int64 `json:"availablePence"`
}

// Notifier fans out a settlement result to the family. Failures are the
// notifier's problem; they never roll back a settlement.
type Notifier interface {
	PayoutCompleted(ctx context.Context, payout *models.Payout) error
}

// Cache invalidates cached wallet reads after settlement moves money.
type Cache interface {
	InvalidateWallet(ctx context.Context, familyID, childID uint) error
}

// NoopCache is a Cache that does nothing.
type NoopCache struct{}

func (NoopCache) InvalidateWallet(context.Context, uint, uint) error { return nil }
