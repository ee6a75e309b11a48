// Package ledger implements the transaction-application state machine: it
// owns per-client account state and replays one transaction at a time,
// enforcing the domain rules (no negative available funds, no withdrawals
// from frozen accounts, at most one open dispute per deposit). Invalid
// operations reject the single transaction and never abort the run.
//
// Amounts are scaled integers from the fixedpoint package; the ledger never
// touches textual or floating-point representations.
package ledger

// Type identifies a transaction variant.
type Type string

const (
	Deposit    Type = "deposit"
	Withdrawal Type = "withdrawal"
	Dispute    Type = "dispute"
	Resolve    Type = "resolve"
	Chargeback Type = "chargeback"
)

// Transaction is one validated entry of the input log. Amount is in ticks
// (see fixedpoint.Magnitude). For dispute/resolve/chargeback the referenced
// deposit's amount is authoritative and this field is ignored.
type Transaction struct {
	Type   Type
	Client uint16
	Amount int64
}

// Account is the running state for one client. Total funds are derived,
// never stored.
type Account struct {
	Available int64
	Held      int64
	Locked    bool
}

// Total returns available plus held funds.
func (a *Account) Total() int64 { return a.Available + a.Held }

// depositRecord remembers an applied deposit so later dispute-chain
// transactions can find its owner and amount. Immutable once stored.
type depositRecord struct {
	client uint16
	amount int64
}

// ─── Outcome ────────────────────────────────────────────────────────────────

// Outcome reports what Apply did with a transaction. Rejections carry one of
// this package's sentinel errors; they are diagnostics for the caller to
// log, count, or journal — processing always continues.
type Outcome struct {
	TxID   uint32
	Type   Type
	Client uint16
	Err    error
}

// Applied reports whether the transaction mutated ledger state.
func (o Outcome) Applied() bool { return o.Err == nil }

// ─── Ledger ─────────────────────────────────────────────────────────────────

// Ledger holds all state for one processing run: accounts by client id,
// deposit records by transaction id, and the set of transaction ids with an
// open dispute. It is single-writer; callers apply transactions strictly in
// input order.
type Ledger struct {
	accounts map[uint16]*Account
	deposits map[uint32]depositRecord
	disputes map[uint32]struct{}

	// strictClient rejects dispute-chain transactions whose own client
	// field does not match the referenced deposit's owner. Off by default:
	// the deposit's client is authoritative and the row's client ignored.
	strictClient bool
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[uint16]*Account),
		deposits: make(map[uint32]depositRecord),
		disputes: make(map[uint32]struct{}),
	}
}

// SetStrictClient toggles cross-checking of the dispute chain's client field.
func (l *Ledger) SetStrictClient(on bool) { l.strictClient = on }

// account returns the state for a client, creating the zero/unlocked account
// on first reference.
func (l *Ledger) account(client uint16) *Account {
	acct, ok := l.accounts[client]
	if !ok {
		acct = &Account{}
		l.accounts[client] = acct
	}
	return acct
}

// Apply replays one transaction. Effects are all-or-nothing: a rejected
// transaction leaves every balance untouched. Whatever happens, the account
// for the transaction's own client exists afterwards — a log entry naming a
// client is evidence the client exists.
func (l *Ledger) Apply(txID uint32, tx Transaction) Outcome {
	out := Outcome{TxID: txID, Type: tx.Type, Client: tx.Client}
	out.Err = l.apply(txID, tx)
	l.account(tx.Client)
	return out
}

func (l *Ledger) apply(txID uint32, tx Transaction) error {
	switch tx.Type {
	case Deposit:
		acct := l.account(tx.Client)
		acct.Available += tx.Amount
		l.deposits[txID] = depositRecord{client: tx.Client, amount: tx.Amount}
		return nil

	case Withdrawal:
		acct := l.account(tx.Client)
		if acct.Locked {
			return ErrAccountLocked
		}
		if acct.Available < tx.Amount {
			return ErrInsufficientFunds
		}
		acct.Available -= tx.Amount
		return nil

	case Dispute:
		if _, open := l.disputes[txID]; open {
			return ErrDuplicateDispute
		}
		dep, ok := l.deposits[txID]
		if !ok {
			return ErrUnknownDeposit
		}
		if l.strictClient && dep.client != tx.Client {
			return ErrClientMismatch
		}
		acct := l.account(dep.client)
		acct.Available -= dep.amount
		acct.Held += dep.amount
		l.disputes[txID] = struct{}{}
		return nil

	case Resolve:
		dep, err := l.openDispute(txID, tx)
		if err != nil {
			return err
		}
		acct := l.account(dep.client)
		acct.Held -= dep.amount
		acct.Available += dep.amount
		delete(l.disputes, txID)
		return nil

	case Chargeback:
		dep, err := l.openDispute(txID, tx)
		if err != nil {
			return err
		}
		acct := l.account(dep.client)
		acct.Held -= dep.amount
		acct.Locked = true
		delete(l.disputes, txID)
		return nil
	}

	// Unknown types are filtered upstream by ingest; reaching here means a
	// caller constructed a Transaction by hand.
	return ErrUnknownType
}

// openDispute fetches the deposit record behind an open dispute. Membership
// in the disputes set implies the deposit record exists.
func (l *Ledger) openDispute(txID uint32, tx Transaction) (depositRecord, error) {
	if _, open := l.disputes[txID]; !open {
		return depositRecord{}, ErrNotDisputed
	}
	dep := l.deposits[txID]
	if l.strictClient && dep.client != tx.Client {
		return depositRecord{}, ErrClientMismatch
	}
	return dep, nil
}

// ─── Accessors ──────────────────────────────────────────────────────────────

// Account returns a copy of a client's state and whether the client exists.
func (l *Ledger) Account(client uint16) (Account, bool) {
	acct, ok := l.accounts[client]
	if !ok {
		return Account{}, false
	}
	return *acct, true
}

// Accounts returns a snapshot of all account state keyed by client id.
func (l *Ledger) Accounts() map[uint16]Account {
	out := make(map[uint16]Account, len(l.accounts))
	for client, acct := range l.accounts {
		out[client] = *acct
	}
	return out
}

// Len returns the number of known accounts.
func (l *Ledger) Len() int { return len(l.accounts) }
