package wallet

import "errors"

var (
	ErrCacheDisabled = errors.New("wallet cache disabled")
	ErrInvalidSource = errors.New("invalid transaction source")
)
