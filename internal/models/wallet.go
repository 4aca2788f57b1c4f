package models

import "time"

// Wallet holds a child's spendable balance. One row per (child, family),
// created lazily on first credit or debit. The balance is only ever
// changed through WalletRepository increment/decrement and is never
// persisted negative. Pending gift money lives in gifts, not here.
type Wallet struct {
	ID           uint  `gorm:"primarykey" json:"id"`
	ChildID      uint  `gorm:"uniqueIndex:idx_wallets_child_family;not null" json:"childId"`
	FamilyID     uint  `gorm:"uniqueIndex:idx_wallets_child_family;not null" json:"familyId"`
	BalancePence int64 `gorm:"not null;default:0" json:"balancePence"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
