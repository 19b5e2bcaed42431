package portfolio

import "errors"

// Ledger rejections. These are user feedback, not system errors; callers
// distinguish them with errors.Is.
var (
	ErrInsufficientCash   = errors.New("insufficient cash")
	ErrNoPosition         = errors.New("no open position")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidOrder       = errors.New("shares and price must be positive")
)
