package ledger

import "errors"

// Validation failures surfaced to the request boundary. Handlers map these
// to HTTP status codes; anything else is treated as an internal error.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidShareCount  = errors.New("invalid number of shares")
	ErrUnknownSymbol      = errors.New("unknown stock symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoHolding          = errors.New("no shares of this stock owned")
)
