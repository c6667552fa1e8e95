package events

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"tally/internal/core"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{63, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"handler error", errors.New("sheet append rejected"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestTransactionEventJSON(t *testing.T) {
	ev := NewCreated(core.Transaction{
		ID:          12345,
		Type:        core.Expense,
		Description: "Groceries",
		Amount:      -42.5,
		Category:    "food",
		Date:        "2024-01-20",
		Currency:    "USD",
	})

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	parsed, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("EventFromJSON: %v", err)
	}
	if parsed.Action != ActionCreated {
		t.Errorf("action = %q", parsed.Action)
	}
	if parsed.Transaction != ev.Transaction {
		t.Errorf("transaction = %+v, want %+v", parsed.Transaction, ev.Transaction)
	}
	if !parsed.Timestamp.Equal(ev.Timestamp) {
		t.Errorf("timestamp = %v, want %v", parsed.Timestamp, ev.Timestamp)
	}
}

func TestNewDeletedCarriesOnlyID(t *testing.T) {
	ev := NewDeleted(99)
	if ev.Action != ActionDeleted || ev.Transaction.ID != 99 {
		t.Fatalf("deleted event = %+v", ev)
	}
	if ev.Transaction.Amount != 0 || ev.Transaction.Description != "" {
		t.Fatalf("deleted event should not carry record data: %+v", ev.Transaction)
	}
}

func TestEventFromJSONInvalid(t *testing.T) {
	if _, err := EventFromJSON([]byte(`{"action": 7}`)); err == nil {
		t.Fatal("EventFromJSON should fail on a non-string action")
	}
}
