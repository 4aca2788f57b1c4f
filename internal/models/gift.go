package models

import "time"

// Gift statuses
const (
	GiftStatusPending = "pending"
	GiftStatusPaidOut = "paid_out"
)

// Gift is money pledged by a relative for a child. It stays pending,
// outside the spendable balance, until a settlement names its id. The
// status transition is one-way: a gift is claimed by at most one payout.
type Gift struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	FamilyID     uint   `gorm:"not null" json:"familyId"`
	ChildID      uint   `gorm:"index:idx_gifts_child_status;not null" json:"childId"`
	RelativeID   uint   `json:"relativeId"`
	RelativeName string `json:"relativeName"`
	MoneyPence   int64  `gorm:"not null" json:"moneyPence"`
	Status       string `gorm:"index:idx_gifts_child_status;not null;default:'pending'" json:"status"`
	PaidOutAt    *time.Time `json:"paidOutAt,omitempty"`
	PayoutID     *uint      `json:"payoutId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
