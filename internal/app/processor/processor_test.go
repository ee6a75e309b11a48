package processor

import (
	"strings"
	"testing"

	"github.com/payrun-io/payrun/internal/ledger"
)

// run replays a CSV log through a quiet processor and returns it for
// inspection.
func run(t *testing.T, csv string) (*Processor, Summary) {
	t.Helper()
	p := New(Config{Quiet: true})
	sum, err := p.Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return p, sum
}

func account(t *testing.T, p *Processor, client uint16) ledger.Account {
	t.Helper()
	acct, ok := p.Ledger().Account(client)
	if !ok {
		t.Fatalf("account %d does not exist", client)
	}
	return acct
}

// Deposits then a partial withdrawal.
func TestRun_DepositsAndWithdrawal(t *testing.T) {
	p, sum := run(t, `type,client,tx,amount
deposit,1,1,1.0
deposit,1,2,2.0
withdrawal,1,3,1.5
`)

	if sum.Applied != 3 || sum.Rejected != 0 || sum.DroppedRows != 0 {
		t.Fatalf("summary = %+v, want 3 applied", sum)
	}
	acct := account(t, p, 1)
	if acct.Available != 15000 || acct.Held != 0 || acct.Locked {
		t.Errorf("account = %+v, want available 1.5, held 0, unlocked", acct)
	}
}

// Dispute then resolve restores available funds.
func TestRun_DisputeResolve(t *testing.T) {
	p, _ := run(t, `type,client,tx,amount
deposit,1,1,1.0
dispute,1,1,0.0
`)
	acct := account(t, p, 1)
	if acct.Available != 0 || acct.Held != 10000 {
		t.Fatalf("after dispute: %+v, want available 0, held 1.0", acct)
	}

	p, _ = run(t, `type,client,tx,amount
deposit,1,1,1.0
dispute,1,1,0.0
resolve,1,1,0.0
`)
	acct = account(t, p, 1)
	if acct.Available != 10000 || acct.Held != 0 {
		t.Errorf("after resolve: %+v, want available 1.0, held 0", acct)
	}
}

// Chargeback locks the account; later withdrawals are rejected for good.
func TestRun_ChargebackLocks(t *testing.T) {
	p, sum := run(t, `type,client,tx,amount
deposit,1,1,1.0
dispute,1,1,0.0
chargeback,1,1,0.0
withdrawal,1,2,0.1
`)

	if sum.Rejected != 1 {
		t.Fatalf("Rejected = %d, want 1", sum.Rejected)
	}
	acct := account(t, p, 1)
	if acct.Available != 0 || acct.Held != 0 || !acct.Locked {
		t.Errorf("account = %+v, want 0/0 locked", acct)
	}
}

// A dispute of an unknown tx id still creates the client's account and
// never halts the run.
func TestRun_InvalidDisputeCreatesAccount(t *testing.T) {
	p, sum := run(t, `type,client,tx,amount
dispute,7,999,0.0
`)

	if sum.Rejected != 1 || sum.Accounts != 1 {
		t.Fatalf("summary = %+v, want 1 rejected, 1 account", sum)
	}
	acct := account(t, p, 7)
	if acct.Available != 0 || acct.Held != 0 || acct.Locked {
		t.Errorf("account = %+v, want all-zero unlocked", acct)
	}
}

// Malformed rows are dropped; everything after them still applies.
func TestRun_DropsMalformedRows(t *testing.T) {
	p, sum := run(t, `type,client,tx,amount
deposit,1,1,1.0
transfer,1,2,1.0
deposit,1,3,garbage
deposit,1,4
deposit,1,5,2.0
`)

	if sum.DroppedRows != 3 {
		t.Fatalf("DroppedRows = %d, want 3", sum.DroppedRows)
	}
	if sum.Applied != 2 {
		t.Fatalf("Applied = %d, want 2", sum.Applied)
	}
	if acct := account(t, p, 1); acct.Available != 30000 {
		t.Errorf("Available = %d, want 3.0", acct.Available)
	}
}

func TestRun_StrictClient(t *testing.T) {
	p := New(Config{Quiet: true, StrictClient: true})
	sum, err := p.Run(strings.NewReader(`type,client,tx,amount
deposit,1,1,1.0
dispute,2,1,0.0
`))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rejected != 1 {
		t.Fatalf("Rejected = %d, want 1", sum.Rejected)
	}
	if acct := account(t, p, 1); acct.Held != 0 {
		t.Errorf("Held = %d, want 0 (mismatched dispute rejected)", acct.Held)
	}
}

func TestRun_EmptyLog(t *testing.T) {
	_, sum := run(t, "type,client,tx,amount\n")
	if sum.Applied != 0 || sum.Accounts != 0 {
		t.Errorf("summary = %+v, want all zero", sum)
	}
}
