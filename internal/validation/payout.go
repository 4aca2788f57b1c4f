// Package validation holds request-level checks shared by handlers.
package validation

import (
	dErrors "choreblimey/internal/errors"
	"choreblimey/internal/models"
)

// ValidatePayoutInput rejects malformed payout requests before they
// reach the settlement engine.
func ValidatePayoutInput(childID uint, amountPence, choreAmountPence int64, method string) error {
	if childID == 0 {
		return dErrors.Validation("child_id is required")
	}
	if amountPence <= 0 {
		return dErrors.Validation("amount_pence must be positive")
	}
	if choreAmountPence < 0 {
		return dErrors.Validation("chore_amount_pence must not be negative")
	}
	if choreAmountPence > amountPence {
		return dErrors.Validation("chore_amount_pence cannot exceed amount_pence")
	}
	switch method {
	case models.PayoutMethodCash, models.PayoutMethodBankTransfer:
		return nil
	default:
		return dErrors.Validation("method must be cash or bank_transfer")
	}
}

// ValidateGiftInput rejects malformed gift contributions.
func ValidateGiftInput(childID uint, moneyPence int64) error {
	if childID == 0 {
		return dErrors.Validation("child_id is required")
	}
	if moneyPence <= 0 {
		return dErrors.Validation("money_pence must be positive")
	}
	return nil
}
