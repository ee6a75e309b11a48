// Package api provides the HTTP server for payrun's serve mode. Each
// request replays an independent transaction log against a fresh ledger;
// the server holds no ledger state between requests.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/payrun-io/payrun/internal/app/processor"
	"github.com/payrun-io/payrun/internal/fixedpoint"
	"github.com/payrun-io/payrun/internal/report"
)

// Server is the payrun HTTP API server.
type Server struct {
	metricsEnabled bool
	strictClient   bool
}

// NewServer creates a new API server.
func NewServer() *Server { return &Server{} }

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetStrictClient applies the dispute-chain client cross-check to every
// request's ledger.
func (s *Server) SetStrictClient(on bool) { s.strictClient = on }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── /v1/process ────────────────────────────────────────────────────────────

// accountJSON is one account row in a JSON report. Amounts are fixed-point
// strings, never floats.
type accountJSON struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

type processJSON struct {
	Applied     int           `json:"applied"`
	Rejected    int           `json:"rejected"`
	DroppedRows int           `json:"dropped_rows"`
	Accounts    []accountJSON `json:"accounts"`
}

// handleProcess replays the CSV body and responds with the account report:
// CSV by default, JSON when the client asks for application/json. Run
// counters are echoed in X-Payrun-* headers either way.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	proc := processor.New(processor.Config{StrictClient: s.strictClient, Quiet: true})
	sum, err := proc.Run(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("X-Payrun-Applied", strconv.Itoa(sum.Applied))
	w.Header().Set("X-Payrun-Rejected", strconv.Itoa(sum.Rejected))
	w.Header().Set("X-Payrun-Dropped-Rows", strconv.Itoa(sum.DroppedRows))

	accounts := proc.Ledger().Accounts()

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		resp := processJSON{
			Applied:     sum.Applied,
			Rejected:    sum.Rejected,
			DroppedRows: sum.DroppedRows,
			Accounts:    make([]accountJSON, 0, len(accounts)),
		}
		for client, acct := range accounts {
			resp.Accounts = append(resp.Accounts, accountJSON{
				Client:    client,
				Available: fixedpoint.Format(acct.Available),
				Held:      fixedpoint.Format(acct.Held),
				Total:     fixedpoint.Format(acct.Total()),
				Locked:    acct.Locked,
			})
		}
		sort.Slice(resp.Accounts, func(i, j int) bool {
			return resp.Accounts[i].Client < resp.Accounts[j].Client
		})
		writeJSON(w, http.StatusOK, resp)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, accounts); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
