package errors

var (
	ErrInsufficientBalance = &DomainError{
		Code:    CodeInsufficientBalance,
		Message: "insufficient wallet balance",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeValidation,
		Message: "invalid amount",
	}
	ErrWalletNotFound = &DomainError{
		Code:    CodeWalletNotFound,
		Message: "wallet not found",
	}
	ErrInvalidGiftSelection = &DomainError{
		Code:    CodeInvalidGiftSelection,
		Message: "one or more gifts are not pending or not owned by the child",
	}
	ErrAmountMismatch = &DomainError{
		Code:    CodeAmountMismatch,
		Message: "payout amount does not equal chore portion plus gift total",
	}
	ErrStorageFailure = &DomainError{
		Code:    CodeStorageFailure,
		Message: "storage transaction failed",
	}
)
