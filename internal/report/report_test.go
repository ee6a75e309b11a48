package report

import (
	"bytes"
	"testing"

	"github.com/payrun-io/payrun/internal/ledger"
)

func TestWrite(t *testing.T) {
	accounts := map[uint16]ledger.Account{
		2: {Available: 15000, Held: 0, Locked: false},
		1: {Available: 0, Held: 10000, Locked: false},
		3: {Available: 0, Held: 0, Locked: true},
	}

	var buf bytes.Buffer
	if err := Write(&buf, accounts); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,0.0000,1.0000,1.0000,false\n" +
		"2,1.5000,0.0000,1.5000,false\n" +
		"3,0.0000,0.0000,0.0000,true\n"
	if got := buf.String(); got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != Header+"\n" {
		t.Errorf("report = %q, want header only", got)
	}
}
