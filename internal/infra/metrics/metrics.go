// Package metrics exposes Prometheus counters for transaction processing.
// Counters are registered on the default registry and served on /metrics
// when the HTTP server runs with metrics enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransactionsApplied counts successfully applied transactions by type.
var TransactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payrun",
	Subsystem: "ledger",
	Name:      "transactions_applied_total",
	Help:      "Total transactions applied to the ledger, by type.",
}, []string{"type"})

// TransactionsRejected counts semantic rejections by reason.
var TransactionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payrun",
	Subsystem: "ledger",
	Name:      "transactions_rejected_total",
	Help:      "Total transactions rejected by a ledger rule, by reason.",
}, []string{"reason"})

// RowsDropped counts malformed input rows dropped before the ledger.
var RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "payrun",
	Subsystem: "ingest",
	Name:      "rows_dropped_total",
	Help:      "Total malformed CSV rows dropped during ingestion.",
})

// RunsCompleted counts finished processing runs.
var RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "payrun",
	Subsystem: "processor",
	Name:      "runs_completed_total",
	Help:      "Total processing runs driven to completion.",
})

// AccountsReported tracks the account count of the most recent run.
var AccountsReported = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "payrun",
	Subsystem: "processor",
	Name:      "accounts_reported",
	Help:      "Number of accounts in the most recently completed run.",
})
