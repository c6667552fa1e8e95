// Package codec serializes the full application state to the JSON export
// document and validates imported documents before they replace live state.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tally/internal/core"
)

var (
	ErrMalformedDocument = errors.New("malformed import document")
	ErrNoTransactions    = errors.New("import document has no transactions list")
)

// Document is the export file shape. SavingsGoal is emitted as an object;
// Decode also accepts the legacy plain-number form.
type Document struct {
	Transactions []core.Transaction `json:"transactions"`
	SavingsGoal  *core.SavingsGoal  `json:"savingsGoal,omitempty"`
	ExportDate   string             `json:"exportDate"`
}

// Export builds the document for the given state at the given instant.
func Export(txs []core.Transaction, goal core.SavingsGoal, now time.Time) Document {
	doc := Document{
		Transactions: txs,
		ExportDate:   now.UTC().Format(time.RFC3339),
	}
	if goal.Target > 0 {
		g := goal
		doc.SavingsGoal = &g
	}
	return doc
}

// Encode renders the document as indented JSON, matching the downloadable
// file format.
func (d Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return append(data, '\n'), nil
}

// Filename returns the download filename for an export taken at now,
// expense-tracker-export-<date>.json.
func Filename(now time.Time) string {
	return "expense-tracker-export-" + now.UTC().Format("2006-01-02") + ".json"
}

// Decode parses and validates an import document. It succeeds only when the
// data is well-formed JSON and carries a transactions array; individual
// records are taken as-is with no per-record schema validation. The returned
// goal is nil unless the document carries a non-zero savings goal.
func Decode(data []byte) ([]core.Transaction, *core.SavingsGoal, error) {
	var raw struct {
		Transactions json.RawMessage `json:"transactions"`
		SavingsGoal  json.RawMessage `json:"savingsGoal"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if len(raw.Transactions) == 0 || !isArray(raw.Transactions) {
		return nil, nil, ErrNoTransactions
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw.Transactions, &elems); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	txs := make([]core.Transaction, len(elems))
	for i, e := range elems {
		// Best-effort: fields that do not fit stay at their zero value
		// and propagate into later computations as-is.
		_ = json.Unmarshal(e, &txs[i])
	}

	return txs, decodeGoal(raw.SavingsGoal), nil
}

func decodeGoal(raw json.RawMessage) *core.SavingsGoal {
	if len(raw) == 0 {
		return nil
	}

	// Legacy exports store the goal as a bare number.
	var target float64
	if err := json.Unmarshal(raw, &target); err == nil {
		if target == 0 {
			return nil
		}
		return &core.SavingsGoal{Target: target, Period: core.DefaultGoalPeriod}
	}

	var goal core.SavingsGoal
	if err := json.Unmarshal(raw, &goal); err != nil || goal.Target == 0 {
		return nil
	}
	if goal.Period == "" {
		goal.Period = core.DefaultGoalPeriod
	}
	return &goal
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
