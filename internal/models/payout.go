package models

import "time"

// Payout methods
const (
	PayoutMethodCash         = "cash"
	PayoutMethodBankTransfer = "bank_transfer"
)

// Payout records one settlement: chore earnings and/or pending gift
// money disbursed to a child. Created exactly once per settlement, never
// mutated or deleted. AmountPence always equals ChoreAmountPence plus
// the money of the gifts in GiftIDs.
type Payout struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	Reference        string `gorm:"uniqueIndex;not null" json:"reference"`
	FamilyID         uint   `gorm:"not null" json:"familyId"`
	ChildID          uint   `gorm:"index;not null" json:"childId"`
	AmountPence      int64  `gorm:"not null" json:"amountPence"`
	ChoreAmountPence *int64 `json:"choreAmountPence,omitempty"`
	PaidBy           uint   `gorm:"not null" json:"paidBy"`
	Method           string `gorm:"not null" json:"method"`
	Note             string `json:"note"`
	GiftIDs          IDList `gorm:"type:jsonb" json:"giftIds"`
	CreatedAt        time.Time `json:"createdAt"`
}
