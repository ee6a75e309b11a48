// Package ingest reads the transaction log from CSV and validates each row
// in isolation: known type, client id in uint16 range, transaction id in
// uint32 range, amount parseable as a fixed-point decimal. Rows that fail
// are reported one at a time and never stop the stream; cross-transaction
// rules live in the ledger, not here.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/payrun-io/payrun/internal/fixedpoint"
	"github.com/payrun-io/payrun/internal/ledger"
)

// Expected CSV header: type,client,tx,amount.
const columns = 4

var (
	ErrColumns     = errors.New("row does not have exactly 4 columns")
	ErrUnknownType = errors.New("unknown transaction type")
	ErrBadClient   = errors.New("client is not an unsigned 16-bit integer")
	ErrBadTxID     = errors.New("tx is not an unsigned 32-bit integer")
)

// Record is one validated row: a transaction id paired with the transaction.
type Record struct {
	TxID uint32
	Tx   ledger.Transaction
}

// RowError describes a dropped row. Line is 1-based and counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ─── Reader ─────────────────────────────────────────────────────────────────

// Reader yields validated records from a CSV stream. The header row is
// consumed on the first call to Next.
type Reader struct {
	csv    *csv.Reader
	header bool
	line   int
}

// NewReader wraps r. Fields are whitespace-trimmed; the column count is
// checked per row so a short or long row drops just that row.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Next returns the next valid record. A row-level problem returns a
// *RowError; the stream stays usable and the next call moves past the bad
// row. End of input returns io.EOF. Only a broken underlying reader (not a
// bad row) returns any other error.
func (r *Reader) Next() (Record, error) {
	if !r.header {
		r.header = true
		r.line++
		if _, err := r.csv.Read(); err != nil {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			return Record{}, fmt.Errorf("read header: %w", err)
		}
	}

	row, err := r.csv.Read()
	r.line++
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return Record{}, &RowError{Line: r.line, Err: err}
		}
		return Record{}, fmt.Errorf("read row: %w", err)
	}

	rec, rerr := parseRow(row)
	if rerr != nil {
		return Record{}, &RowError{Line: r.line, Err: rerr}
	}
	return rec, nil
}

// Line returns the number of the most recently read line.
func (r *Reader) Line() int { return r.line }

// ─── Row Validation ─────────────────────────────────────────────────────────

func parseRow(row []string) (Record, error) {
	if len(row) != columns {
		return Record{}, fmt.Errorf("%w: got %d", ErrColumns, len(row))
	}
	for i, field := range row {
		row[i] = strings.TrimSpace(field)
	}

	txType, ok := parseType(row[0])
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownType, row[0])
	}

	client, err := strconv.ParseUint(row[1], 10, 16)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrBadClient, row[1])
	}

	txID, err := strconv.ParseUint(row[2], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrBadTxID, row[2])
	}

	// Every row carries an amount, dispute-chain rows included; a row whose
	// amount does not parse is dropped regardless of type.
	amount, err := fixedpoint.Parse(row[3])
	if err != nil {
		return Record{}, err
	}

	return Record{
		TxID: uint32(txID),
		Tx: ledger.Transaction{
			Type:   txType,
			Client: uint16(client),
			Amount: amount,
		},
	}, nil
}

func parseType(s string) (ledger.Type, bool) {
	switch ledger.Type(strings.ToLower(s)) {
	case ledger.Deposit:
		return ledger.Deposit, true
	case ledger.Withdrawal:
		return ledger.Withdrawal, true
	case ledger.Dispute:
		return ledger.Dispute, true
	case ledger.Resolve:
		return ledger.Resolve, true
	case ledger.Chargeback:
		return ledger.Chargeback, true
	}
	return "", false
}
