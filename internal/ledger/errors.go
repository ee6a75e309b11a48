package ledger

import "errors"

// ─── Rejection Reasons ──────────────────────────────────────────────────────
// A rejected transaction is a normal outcome of replaying a dirty log, not
// an exceptional condition. Each reason is a sentinel so callers can match
// with errors.Is when counting or journaling rejections.

var (
	ErrAccountLocked     = errors.New("withdrawal attempted on frozen account")
	ErrInsufficientFunds = errors.New("withdrawal bigger than available funds")
	ErrDuplicateDispute  = errors.New("duplicate dispute claim")
	ErrUnknownDeposit    = errors.New("dispute references unknown transaction id")
	ErrNotDisputed       = errors.New("transaction is not under dispute")
	ErrClientMismatch    = errors.New("client does not own the referenced deposit")
	ErrUnknownType       = errors.New("unknown transaction type")
)
