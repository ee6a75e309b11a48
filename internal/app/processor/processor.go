// Package processor drives one complete run: it pulls validated records
// from ingest, applies them to a fresh ledger in input order, and fans
// diagnostics out to the warning log, the Prometheus counters, and the
// optional audit journal. The ledger itself stays free of I/O; everything
// observable happens here.
package processor

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/payrun-io/payrun/internal/infra/audit"
	"github.com/payrun-io/payrun/internal/infra/metrics"
	"github.com/payrun-io/payrun/internal/ingest"
	"github.com/payrun-io/payrun/internal/ledger"
)

// Config controls processor behavior.
type Config struct {
	StrictClient bool       // cross-check dispute-chain client fields
	AuditRun     *audit.Run // nil disables journaling
	Quiet        bool       // suppress warning log lines (tests)
}

// Summary reports what a run did.
type Summary struct {
	Applied     int
	Rejected    int
	DroppedRows int
	Accounts    int
}

// Processor replays one transaction log. Not reusable: one Processor, one
// run, one ledger.
type Processor struct {
	config Config
	ledger *ledger.Ledger
}

// New creates a processor with a fresh, empty ledger.
func New(cfg Config) *Processor {
	l := ledger.New()
	l.SetStrictClient(cfg.StrictClient)
	return &Processor{config: cfg, ledger: l}
}

// Ledger exposes the ledger for reporting after Run returns.
func (p *Processor) Ledger() *ledger.Ledger { return p.ledger }

// Run consumes the CSV stream until EOF. Row-level and semantic problems
// are warned about and counted but never stop the run; only a broken
// underlying reader aborts with an error.
func (p *Processor) Run(r io.Reader) (Summary, error) {
	var sum Summary
	in := ingest.NewReader(r)

	for {
		rec, err := in.Next()
		if err == io.EOF {
			break
		}
		var rowErr *ingest.RowError
		if errors.As(err, &rowErr) {
			sum.DroppedRows++
			metrics.RowsDropped.Inc()
			p.warn("dropped row: %v", rowErr)
			p.journalDrop(rowErr)
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("read transactions: %w", err)
		}

		out := p.ledger.Apply(rec.TxID, rec.Tx)
		if out.Applied() {
			sum.Applied++
			metrics.TransactionsApplied.WithLabelValues(string(out.Type)).Inc()
			continue
		}
		sum.Rejected++
		metrics.TransactionsRejected.WithLabelValues(out.Err.Error()).Inc()
		p.warn("rejected %s tx %d (client %d): %v", out.Type, out.TxID, out.Client, out.Err)
		p.journalReject(out)
	}

	sum.Accounts = p.ledger.Len()
	metrics.AccountsReported.Set(float64(sum.Accounts))
	metrics.RunsCompleted.Inc()
	return sum, nil
}

func (p *Processor) warn(format string, args ...any) {
	if !p.config.Quiet {
		log.Printf("warning: "+format, args...)
	}
}

func (p *Processor) journalDrop(rowErr *ingest.RowError) {
	if p.config.AuditRun == nil {
		return
	}
	if err := p.config.AuditRun.DroppedRow(rowErr.Line, rowErr.Err.Error()); err != nil {
		p.warn("audit journal write failed: %v", err)
	}
}

func (p *Processor) journalReject(out ledger.Outcome) {
	if p.config.AuditRun == nil {
		return
	}
	if err := p.config.AuditRun.RejectedTx(out.TxID, string(out.Type), out.Client, out.Err.Error()); err != nil {
		p.warn("audit journal write failed: %v", err)
	}
}
