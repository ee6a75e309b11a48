// Package report renders the final account balances after a run.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/payrun-io/payrun/internal/fixedpoint"
	"github.com/payrun-io/payrun/internal/ledger"
)

// Header is the first line of every report.
const Header = "client,available,held,total,locked"

// Write renders one line per account after the header. Rows are sorted by
// client id so output is stable across runs.
func Write(w io.Writer, accounts map[uint16]ledger.Account) error {
	clients := make([]uint16, 0, len(accounts))
	for client := range accounts {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i] < clients[j] })

	if _, err := fmt.Fprintln(w, Header); err != nil {
		return err
	}
	for _, client := range clients {
		acct := accounts[client]
		_, err := fmt.Fprintf(w, "%d,%s,%s,%s,%t\n",
			client,
			fixedpoint.Format(acct.Available),
			fixedpoint.Format(acct.Held),
			fixedpoint.Format(acct.Total()),
			acct.Locked,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
