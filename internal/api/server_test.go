package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleLog = `type,client,tx,amount
deposit,1,1,1.0
deposit,1,2,2.0
withdrawal,1,3,1.5
dispute,2,99,0.0
`

func TestHealth(t *testing.T) {
	srv := NewServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestProcess_CSV(t *testing.T) {
	srv := NewServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/process", strings.NewReader(sampleLog))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Payrun-Applied"); got != "3" {
		t.Errorf("X-Payrun-Applied = %q, want 3", got)
	}
	if got := w.Header().Get("X-Payrun-Rejected"); got != "1" {
		t.Errorf("X-Payrun-Rejected = %q, want 1", got)
	}

	want := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,0.0000,0.0000,0.0000,false\n"
	if got := w.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestProcess_JSON(t *testing.T) {
	srv := NewServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/process", strings.NewReader(sampleLog))
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Applied  int `json:"applied"`
		Rejected int `json:"rejected"`
		Accounts []struct {
			Client    uint16 `json:"client"`
			Available string `json:"available"`
			Locked    bool   `json:"locked"`
		} `json:"accounts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Applied != 3 || resp.Rejected != 1 {
		t.Errorf("applied/rejected = %d/%d, want 3/1", resp.Applied, resp.Rejected)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(resp.Accounts))
	}
	if resp.Accounts[0].Client != 1 || resp.Accounts[0].Available != "1.5000" {
		t.Errorf("account 0 = %+v, want client 1 with 1.5000 available", resp.Accounts[0])
	}
}

func TestProcess_EachRequestIsolated(t *testing.T) {
	srv := NewServer()
	h := srv.Handler()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/process",
			strings.NewReader("type,client,tx,amount\ndeposit,1,1,1.0\n"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		// Balances never accumulate across requests.
		want := "client,available,held,total,locked\n1,1.0000,0.0000,1.0000,false\n"
		if got := w.Body.String(); got != want {
			t.Errorf("request %d body = %q, want %q", i, got, want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer()
	srv.EnableMetrics()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "payrun_") {
		t.Error("metrics output should contain payrun_ series")
	}
}

func TestMetricsDisabledByDefault(t *testing.T) {
	srv := NewServer()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
