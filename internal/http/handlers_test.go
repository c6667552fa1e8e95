package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"tally/internal/core"
	"tally/internal/currency"
	"tally/internal/events"
	"tally/internal/kv/memory"
	"tally/internal/ledger"
	"tally/internal/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := ledger.New(memory.New())
	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	s := NewServer(":0", store, currency.FallbackTable(), events.NopPublisher{}, log.New(log.ComponentHTTP))
	s.now = func() time.Time { return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestCreateTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"expense","description":"Groceries","amount":200,"category":"food","date":"2024-01-20"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var tx core.Transaction
	decode(t, rec, &tx)
	if tx.Amount != -200 || tx.Currency != core.BaseCurrency {
		t.Fatalf("created = %+v", tx)
	}
	if tx.ID == 0 {
		t.Fatal("created transaction has no id")
	}
}

func TestCreateTransactionStringAmount(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","description":"Salary","amount":"1000,50","date":"2024-01-15"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var tx core.Transaction
	decode(t, rec, &tx)
	if tx.Amount != 1000.50 {
		t.Fatalf("amount = %v, want 1000.50", tx.Amount)
	}

	// Unparseable amounts are recorded as zero, not rejected.
	rec = do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","description":"Odd","amount":"abc","date":"2024-01-15"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	decode(t, rec, &tx)
	if tx.Amount != 0 {
		t.Fatalf("amount = %v, want 0", tx.Amount)
	}
}

func TestCreateTransactionSanitizesText(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/transactions",
		"{\"type\":\"expense\",\"description\":\"  Coffee\\u0000\\u0007  \",\"amount\":3,\"category\":\" food \",\"date\":\"2024-01-02\"}")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var tx core.Transaction
	decode(t, rec, &tx)
	if tx.Description != "Coffee" || tx.Category != "food" {
		t.Fatalf("sanitized record = %+v", tx)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{broken`, http.StatusBadRequest},
		{"bad type", `{"type":"transfer","amount":1,"date":"2024-01-01"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"type":"income","amount":1,"date":"01/15/2024"}`, http.StatusUnprocessableEntity},
		{"missing date", `{"type":"income","amount":1}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := do(t, s, http.MethodPost, "/api/transactions", tc.body); rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestListTransactionsFiltered(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","description":"Monthly Salary","amount":1000,"category":"work","date":"2024-01-15"}`)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"expense","description":"Groceries","amount":200,"category":"food","date":"2024-01-20"}`)

	rec := do(t, s, http.MethodGet, "/api/transactions?search=salary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
		Currency     string             `json:"currency"`
	}
	decode(t, rec, &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].Description != "Monthly Salary" {
		t.Fatalf("filtered = %+v", resp.Transactions)
	}
	if resp.Currency != core.BaseCurrency {
		t.Fatalf("currency = %q", resp.Currency)
	}

	rec = do(t, s, http.MethodGet, "/api/transactions?type=expense&category=food", "")
	decode(t, rec, &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].Category != "food" {
		t.Fatalf("filtered = %+v", resp.Transactions)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":10,"date":"2024-01-01"}`)
	var tx core.Transaction
	decode(t, rec, &tx)

	if rec := do(t, s, http.MethodDelete, "/api/transactions/"+strconv.FormatInt(tx.ID, 10), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	// Absent ids are a silent no-op.
	if rec := do(t, s, http.MethodDelete, "/api/transactions/424242", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("absent delete status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/transactions/not-a-number", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
}

func TestSummaryAndCharts(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","description":"Salary","amount":1000,"date":"2024-01-15"}`)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"expense","description":"Groceries","amount":200,"category":"food","date":"2024-01-20"}`)

	rec := do(t, s, http.MethodGet, "/api/summary", "")
	var summary struct {
		Summary struct {
			Balance string `json:"balance"`
		} `json:"summary"`
	}
	decode(t, rec, &summary)
	if !strings.Contains(summary.Summary.Balance, "800") {
		t.Fatalf("balance = %q", summary.Summary.Balance)
	}

	rec = do(t, s, http.MethodGet, "/api/charts/monthly", "")
	var monthly struct {
		Labels  []string  `json:"labels"`
		Income  []float64 `json:"income"`
		Expense []float64 `json:"expense"`
	}
	decode(t, rec, &monthly)
	if len(monthly.Labels) != 1 || monthly.Labels[0] != "2024-01" {
		t.Fatalf("monthly labels = %v", monthly.Labels)
	}
	if monthly.Income[0] != 1000 || monthly.Expense[0] != 200 {
		t.Fatalf("monthly series = %+v", monthly)
	}

	rec = do(t, s, http.MethodGet, "/api/charts/categories", "")
	var categories struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}
	decode(t, rec, &categories)
	if len(categories.Labels) != 1 || categories.Labels[0] != "food" || categories.Values[0] != 200 {
		t.Fatalf("categories = %+v", categories)
	}
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":500,"date":"2024-01-01"}`)

	rec := do(t, s, http.MethodPut, "/api/goal", `{"target":1000,"period":"monthly"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set goal status = %d", rec.Code)
	}
	var progress struct {
		Percent float64 `json:"percent"`
		Display string  `json:"display"`
	}
	decode(t, rec, &progress)
	if progress.Percent != 50 || progress.Display != "50.0%" {
		t.Fatalf("progress = %+v", progress)
	}

	if rec := do(t, s, http.MethodPut, "/api/goal", `{"target":-10}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative goal status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/goal", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear goal status = %d", rec.Code)
	}
}

func TestSetCurrencyRerenders(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":100,"date":"2024-01-01"}`)

	rec := do(t, s, http.MethodPut, "/api/currency", `{"currency":"EUR"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Currency string `json:"currency"`
		Summary  struct {
			ConvertedBalance string `json:"convertedBalance"`
		} `json:"summary"`
	}
	decode(t, rec, &resp)
	if resp.Currency != "EUR" {
		t.Fatalf("currency = %q", resp.Currency)
	}
	// 100 USD at the 0.85 fallback rate.
	if !strings.Contains(resp.Summary.ConvertedBalance, "85") {
		t.Fatalf("converted balance = %q", resp.Summary.ConvertedBalance)
	}
}

func TestExportDownload(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":100,"date":"2024-01-01"}`)

	rec := do(t, s, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "expense-tracker-export-2024-03-09.json") {
		t.Fatalf("Content-Disposition = %q", disposition)
	}

	var doc struct {
		Transactions []core.Transaction `json:"transactions"`
		ExportDate   string             `json:"exportDate"`
	}
	decode(t, rec, &doc)
	if len(doc.Transactions) != 1 {
		t.Fatalf("exported %d transactions", len(doc.Transactions))
	}
	if _, err := time.Parse(time.RFC3339, doc.ExportDate); err != nil {
		t.Fatalf("exportDate = %q: %v", doc.ExportDate, err)
	}
}

func TestImportReplacesState(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":1,"date":"2024-01-01"}`)

	rec := do(t, s, http.MethodPost, "/api/import",
		`{"transactions":[{"id":7,"type":"expense","description":"Rent","amount":-800,"category":"home","date":"2023-02-01","currency":"USD"}],"savingsGoal":{"target":300,"period":"monthly"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	list := do(t, s, http.MethodGet, "/api/transactions", "")
	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	decode(t, list, &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].ID != 7 {
		t.Fatalf("after import = %+v", resp.Transactions)
	}
	if goal := s.ledger.Goal(); goal.Target != 300 {
		t.Fatalf("imported goal = %+v", goal)
	}
}

func TestImportRejectionLeavesStateUntouched(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/transactions",
		`{"type":"income","description":"Keep me","amount":1,"date":"2024-01-01"}`)

	for _, body := range []string{
		`{broken`,
		`{"savingsGoal": 5}`,
		`{"transactions": "not-a-list"}`,
	} {
		if rec := do(t, s, http.MethodPost, "/api/import", body); rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("import %q status = %d, want 422", body, rec.Code)
		}
	}

	list := do(t, s, http.MethodGet, "/api/transactions", "")
	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	decode(t, list, &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].Description != "Keep me" {
		t.Fatalf("state after rejected imports = %+v", resp.Transactions)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/transactions", "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
}
