// Package kv defines the key-value persistence port the ledger syncs
// through, and names the keys it uses. Values are JSON-encoded strings.
package kv

import "context"

// Keys used by the ledger. They mirror the browser-era storage keys so that
// previously exported data keeps its meaning.
const (
	KeyTransactions     = "transactions"
	KeySavingsGoal      = "savingsGoal"
	KeySavingsPeriod    = "savingsPeriod"
	KeySelectedCurrency = "selectedCurrency"
)

// Store is a string-keyed get/set/remove of JSON-serializable values.
// Implementations must treat Set as a whole-value replacement.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}
