package models

import "time"

// Transaction types
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Transaction sources
const (
	SourceParent   = "parent"
	SourceRelative = "relative"
	SourceSystem   = "system"
)

// Meta statuses for gift-credit rows
const (
	MetaStatusPending = "pending"
	MetaStatusPaidOut = "paid_out"
)

// Transaction is an immutable ledger entry. Exactly one row exists per
// balance change; the wallet balance is reconstructible by summing
// effective credits minus debits (credits with Meta.status "pending"
// have not yet hit the balance).
//
// The only permitted mutation is flipping Meta.status pending -> paid_out
// on a gift-credit row during settlement. GiftID links a relative's
// credit row to its gift directly, so settlement never has to scan
// metadata to find the row to annotate.
type Transaction struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	WalletID    uint   `gorm:"index;not null" json:"walletId"`
	FamilyID    uint   `gorm:"not null" json:"familyId"`
	Type        string `gorm:"not null" json:"type"`
	AmountPence int64  `gorm:"not null" json:"amountPence"`
	Source      string `gorm:"not null" json:"source"`
	GiftID      *uint  `gorm:"index" json:"giftId,omitempty"`
	Meta        JSON   `gorm:"type:jsonb" json:"meta"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Pending reports whether this is a gift credit that has not been
// settled into the wallet balance yet.
func (t *Transaction) Pending() bool {
	if t.Type != TransactionTypeCredit || t.Meta == nil {
		return false
	}
	status, _ := t.Meta["status"].(string)
	return status == MetaStatusPending
}
